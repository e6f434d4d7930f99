package repo

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryTable is a spreadsheet-like Table kept in process memory. Like the
// hosted sheet it does not enforce unique ids.
type InMemoryTable struct {
	mu   sync.Mutex
	rows []Row

	// FailOn, when set, is consulted before every call; a non-nil error is
	// returned wrapped in ErrUnavailable.
	FailOn func(op string, id string) error
	calls  []string
}

func NewInMemoryTable(rows ...Row) *InMemoryTable {
	t := &InMemoryTable{}
	for _, r := range rows {
		t.rows = append(t.rows, r.Clone())
	}
	return t
}

func (t *InMemoryTable) fail(op, id string) error {
	t.calls = append(t.calls, op+" "+id)
	if t.FailOn == nil {
		return nil
	}
	if err := t.FailOn(op, id); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, op, id, err)
	}
	return nil
}

func (t *InMemoryTable) All(ctx context.Context) ([]Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.fail("all", ""); err != nil {
		return nil, err
	}

	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Clone()
	}
	return out, nil
}

// Search matches the field exactly and case-sensitively.
func (t *InMemoryTable) Search(ctx context.Context, field, value string) ([]Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.fail("search", field+"="+value); err != nil {
		return nil, err
	}

	out := []Row{}
	for _, r := range t.rows {
		if v, ok := r[field]; ok && v == value {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (t *InMemoryTable) Create(ctx context.Context, row Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.fail("create", row["id"]); err != nil {
		return err
	}

	t.rows = append(t.rows, row.Clone())
	return nil
}

// Update merges row into every row carrying id.
func (t *InMemoryTable) Update(ctx context.Context, id string, row Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.fail("update", id); err != nil {
		return err
	}

	found := false
	for _, r := range t.rows {
		if r["id"] == id {
			for k, v := range row {
				r[k] = v
			}
			found = true
		}
	}
	if !found {
		return ErrRowNotFound
	}
	return nil
}

func (t *InMemoryTable) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.fail("delete", id); err != nil {
		return err
	}

	kept := t.rows[:0]
	for _, r := range t.rows {
		if r["id"] != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(t.rows) {
		return ErrRowNotFound
	}
	t.rows = kept
	return nil
}

// Calls lists every operation attempted so far, failed ones included.
func (t *InMemoryTable) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.calls))
	copy(out, t.calls)
	return out
}

func (t *InMemoryTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	t.calls = nil
}
