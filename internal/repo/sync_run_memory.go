package repo

import (
	"sync"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

type InMemorySyncRunRepository struct {
	mu   sync.Mutex
	runs []models.SyncRun
}

func NewInMemorySyncRunRepository() *InMemorySyncRunRepository {
	return &InMemorySyncRunRepository{
		runs: []models.SyncRun{},
	}
}

// Log stores a finished run and assigns its id.
func (r *InMemorySyncRunRepository) Log(run models.SyncRun) (models.SyncRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run.ID = len(r.runs) + 1
	r.runs = append(r.runs, run)
	return run, nil
}

// GetByProductID returns the runs of a product, newest first, optionally filtered by start time and paginated
func (r *InMemorySyncRunRepository) GetByProductID(productID int, f SyncRunFilter) ([]models.SyncRun, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.SyncRun
	for i := len(r.runs) - 1; i >= 0; i-- {
		run := r.runs[i]
		if run.ProductID != productID {
			continue
		}
		if (f.Since != nil && run.StartedAt.Before(*f.Since)) ||
			(f.Until != nil && run.StartedAt.After(*f.Until)) {
			continue
		}
		filtered = append(filtered, run)
	}

	if f.Offset != nil && *f.Offset > len(filtered) {
		return []models.SyncRun{}, len(filtered), nil
	}

	start := 0
	if f.Offset != nil {
		start = clamp(*f.Offset, 0, len(filtered))
	}

	limit := defaultLimit
	if f.Limit != nil && *f.Limit > 0 {
		limit = min(*f.Limit, defaultLimit)
	}
	end := clamp(start+limit, start, len(filtered))

	out := make([]models.SyncRun, end-start)
	copy(out, filtered[start:end])
	return out, len(filtered), nil
}

func (r *InMemorySyncRunRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = []models.SyncRun{}
}
