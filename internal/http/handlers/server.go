package handlers

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/auth"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/inventory"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
)

// Server holds everything the handlers read or write. It replaces
// package-level repositories so that several instances can coexist in tests.
type Server struct {
	state   *inventory.State
	auth    *auth.Service
	history repo.SyncRunRepository
	logger  *zap.Logger
	newID   func() (string, error)
}

func NewServer(state *inventory.State, authService *auth.Service, history repo.SyncRunRepository, logger *zap.Logger) *Server {
	return &Server{
		state:   state,
		auth:    authService,
		history: history,
		logger:  logger.Named("http"),
		newID:   newPartID,
	}
}

func (s *Server) Auth() *auth.Service {
	return s.auth
}

// newPartID returns a time-ordered id so parts created by different
// clients in the same millisecond still differ.
func newPartID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
