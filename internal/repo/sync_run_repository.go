package repo

import (
	"time"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

type SyncRunFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

// SyncRunRepository keeps the history of part synchronizations, newest first.
type SyncRunRepository interface {
	Log(run models.SyncRun) (models.SyncRun, error)
	GetByProductID(productID int, f SyncRunFilter) ([]models.SyncRun, int, error)
}

const defaultLimit = 100

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
