// Package logger builds the zap logger shared by every component.
package logger

import (
	"go.uber.org/zap"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/config"
)

// New returns a production logger, or a development one when format is console.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	l, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("service", "stock-management")), nil
}
