package repo

import (
	"testing"
	"time"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

func TestInMemorySyncRunRepository_GetByProductID(t *testing.T) {
	r := NewInMemorySyncRunRepository()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		r.Log(models.SyncRun{ProductID: 1, Status: models.SyncOK, StartedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	r.Log(models.SyncRun{ProductID: 2, Status: models.SyncFailed, StartedAt: base})

	intPtr := func(v int) *int { return &v }
	timePtr := func(v time.Time) *time.Time { return &v }

	tests := []struct {
		name      string
		filter    SyncRunFilter
		wantLen   int
		wantTotal int
		firstID   int
	}{
		{"all newest first", SyncRunFilter{}, 5, 5, 5},
		{"limit", SyncRunFilter{Limit: intPtr(2)}, 2, 5, 5},
		{"offset", SyncRunFilter{Offset: intPtr(3)}, 2, 5, 2},
		{"offset beyond", SyncRunFilter{Offset: intPtr(10)}, 0, 5, 0},
		{"since", SyncRunFilter{Since: timePtr(base.Add(3 * time.Hour))}, 2, 2, 5},
		{"until", SyncRunFilter{Until: timePtr(base.Add(time.Hour))}, 2, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, total, err := r.GetByProductID(1, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(runs) != tt.wantLen || total != tt.wantTotal {
				t.Fatalf("expected %d runs of %d, got %d of %d", tt.wantLen, tt.wantTotal, len(runs), total)
			}
			if tt.wantLen > 0 && runs[0].ID != tt.firstID {
				t.Errorf("expected first id %d, got %d", tt.firstID, runs[0].ID)
			}
		})
	}
}
