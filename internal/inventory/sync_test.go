package inventory

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/events"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
)

var fastRetry = RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}

type recordingPublisher struct {
	events []events.PartsSynced
}

func (p *recordingPublisher) PublishPartsSynced(ctx context.Context, e events.PartsSynced) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func hope() catalog.Entry {
	e, _ := catalog.ByID(1)
	return e
}

func remoteIDs(t *testing.T, table repo.Table, product string) []string {
	t.Helper()
	rows, err := table.Search(context.Background(), "productName", product)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r["id"])
	}
	sort.Strings(ids)
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSynchronize(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Creates every part on an empty sheet", func(t *testing.T) {
		table := repo.NewInMemoryTable()
		pub := &recordingPublisher{}
		s := NewSynchronizer(table, WithRetry(fastRetry), WithPublisher(pub), WithClock(func() time.Time { return fixed }))

		desired := []models.Part{
			{ID: "a", Name: "Bolt", PartNo: "P-1", Quantity: 3},
			{ID: "b", Name: "Nut", PartNo: "P-2", Quantity: 0, IsNew: true},
		}
		run := s.Synchronize(context.Background(), hope(), desired)

		if run.Status != models.SyncOK || run.Created != 2 || run.Failed != 0 {
			t.Fatalf("unexpected run: %+v", run)
		}
		if got := remoteIDs(t, table, "HOPE-10000"); !equalIDs(got, []string{"a", "b"}) {
			t.Errorf("expected remote ids [a b], got %v", got)
		}

		rows, _ := table.Search(context.Background(), "id", "b")
		if rows[0]["isNew"] != "true" || rows[0]["quantity"] != "0" {
			t.Errorf("unexpected row: %v", rows[0])
		}
		if rows[0]["createdAt"] != "2024-05-01T10:00:00.000Z" || rows[0]["updatedAt"] != "2024-05-01T10:00:00.000Z" {
			t.Errorf("unexpected timestamps: %v", rows[0])
		}
		if len(pub.events) != 1 || pub.events[0].PartCount != 2 {
			t.Errorf("expected one event for 2 parts, got %+v", pub.events)
		}
	})

	t.Run("Removes parts that are no longer desired", func(t *testing.T) {
		table := repo.NewInMemoryTable(
			partRowFixture("A", "HOPE-10000", "Bolt", "P-1", "1"),
			partRowFixture("B", "HOPE-10000", "Nut", "P-2", "1"),
			partRowFixture("C", "HOPE-10000", "Gear", "P-3", "1"),
			partRowFixture("X", "Tools", "Wrench", "W-1", "1"),
		)
		s := NewSynchronizer(table, WithRetry(fastRetry))

		desired := []models.Part{
			{ID: "A", Name: "Bolt", PartNo: "P-1", Quantity: 5},
			{ID: "C", Name: "Gear", PartNo: "P-3", Quantity: 1},
		}
		run := s.Synchronize(context.Background(), hope(), desired)

		if run.Deleted != 1 || run.Updated != 2 || run.Created != 0 {
			t.Errorf("unexpected run: %+v", run)
		}
		if got := remoteIDs(t, table, "HOPE-10000"); !equalIDs(got, []string{"A", "C"}) {
			t.Errorf("expected remote ids [A C], got %v", got)
		}
		if got := remoteIDs(t, table, "Tools"); !equalIDs(got, []string{"X"}) {
			t.Errorf("other products must be untouched, got %v", got)
		}
	})

	t.Run("Keeps createdAt of existing parts", func(t *testing.T) {
		row := partRowFixture("A", "HOPE-10000", "Bolt", "P-1", "1")
		row["createdAt"] = "2023-01-01T00:00:00.000Z"
		table := repo.NewInMemoryTable(row)
		s := NewSynchronizer(table, WithRetry(fastRetry), WithClock(func() time.Time { return fixed }))

		s.Synchronize(context.Background(), hope(), []models.Part{
			{ID: "A", Name: "Bolt", PartNo: "P-1", Quantity: 2, CreatedAt: "2023-01-01T00:00:00.000Z"},
		})

		rows, _ := table.Search(context.Background(), "id", "A")
		if rows[0]["createdAt"] != "2023-01-01T00:00:00.000Z" {
			t.Errorf("createdAt changed: %v", rows[0]["createdAt"])
		}
		if rows[0]["updatedAt"] != "2024-05-01T10:00:00.000Z" {
			t.Errorf("updatedAt not refreshed: %v", rows[0]["updatedAt"])
		}
		if rows[0]["quantity"] != "2" {
			t.Errorf("quantity not updated: %v", rows[0]["quantity"])
		}
	})

	t.Run("Fills in createdAt from the sheet when the part has none", func(t *testing.T) {
		row := partRowFixture("A", "HOPE-10000", "Bolt", "P-1", "1")
		row["createdAt"] = "2020-01-01T00:00:00.000Z"
		table := repo.NewInMemoryTable(row)
		s := NewSynchronizer(table, WithRetry(fastRetry), WithClock(func() time.Time { return fixed }))

		run := s.Synchronize(context.Background(), hope(), []models.Part{
			{ID: "A", Name: "Bolt", PartNo: "P-1", Quantity: 4},
		})
		if run.Status != models.SyncOK || run.Updated != 1 {
			t.Fatalf("unexpected run: %+v", run)
		}

		rows, _ := table.Search(context.Background(), "id", "A")
		if rows[0]["createdAt"] != "2020-01-01T00:00:00.000Z" {
			t.Errorf("createdAt overwritten: %v", rows[0]["createdAt"])
		}
		if rows[0]["quantity"] != "4" {
			t.Errorf("quantity not updated: %v", rows[0]["quantity"])
		}
	})

	t.Run("Repeated ids are not written and fail the run", func(t *testing.T) {
		table := repo.NewInMemoryTable(partRowFixture("A", "HOPE-10000", "Bolt", "P-1", "1"))
		s := NewSynchronizer(table, WithRetry(fastRetry))

		run := s.Synchronize(context.Background(), hope(), []models.Part{
			{ID: "A", Name: "Bolt", PartNo: "P-1", Quantity: 1},
			{ID: "A", Name: "Other", PartNo: "P-9", Quantity: 2},
		})
		if run.Status != models.SyncFailed || run.Updated != 1 || run.Failed != 1 || run.Error == "" {
			t.Errorf("unexpected run: %+v", run)
		}

		rows, _ := table.Search(context.Background(), "id", "A")
		if len(rows) != 1 || rows[0]["partNo"] != "P-1" {
			t.Errorf("expected the first part to own id A, got %v", rows)
		}
	})

	t.Run("Rows without id are left alone", func(t *testing.T) {
		table := repo.NewInMemoryTable(
			partRowFixture("", "HOPE-10000", "Orphan", "P-0", "1"),
			partRowFixture("A", "HOPE-10000", "Bolt", "P-1", "1"),
		)
		s := NewSynchronizer(table, WithRetry(fastRetry))

		run := s.Synchronize(context.Background(), hope(), []models.Part{
			{ID: "A", Name: "Bolt", PartNo: "P-1", Quantity: 1},
		})
		if run.Status != models.SyncOK || run.Deleted != 0 {
			t.Errorf("unexpected run: %+v", run)
		}
		for _, c := range table.Calls() {
			if c == "delete " {
				t.Errorf("unexpected delete of an id-less row: %v", table.Calls())
			}
		}
		if got := remoteIDs(t, table, "HOPE-10000"); !equalIDs(got, []string{"", "A"}) {
			t.Errorf("expected id-less row to remain, got %v", got)
		}
	})

	t.Run("Transient failures are retried", func(t *testing.T) {
		table := repo.NewInMemoryTable()
		failures := 0
		table.FailOn = func(op, id string) error {
			if op == "create" && failures < 2 {
				failures++
				return errors.New("429")
			}
			return nil
		}
		s := NewSynchronizer(table, WithRetry(fastRetry))

		run := s.Synchronize(context.Background(), hope(), []models.Part{{ID: "a", Name: "Bolt", PartNo: "P-1"}})
		if run.Status != models.SyncOK || run.Created != 1 {
			t.Errorf("expected success after retries, got %+v", run)
		}
	})

	t.Run("Persistent failures are swallowed and recorded", func(t *testing.T) {
		table := repo.NewInMemoryTable()
		table.FailOn = func(op, id string) error {
			if op == "create" && id == "b" {
				return errors.New("down")
			}
			return nil
		}
		history := repo.NewInMemorySyncRunRepository()
		s := NewSynchronizer(table, WithRetry(fastRetry), WithHistory(history))

		run := s.Synchronize(context.Background(), hope(), []models.Part{
			{ID: "a", Name: "Bolt", PartNo: "P-1"},
			{ID: "b", Name: "Nut", PartNo: "P-2"},
		})
		if run.Status != models.SyncFailed || run.Created != 1 || run.Failed != 1 || run.Error == "" {
			t.Errorf("unexpected run: %+v", run)
		}
		if got := remoteIDs(t, table, "HOPE-10000"); !equalIDs(got, []string{"a"}) {
			t.Errorf("expected only a to be created, got %v", got)
		}

		runs, total, err := history.GetByProductID(1, repo.SyncRunFilter{})
		if err != nil || total != 1 || runs[0].ID != run.ID {
			t.Errorf("expected run in history, got %v %d %v", runs, total, err)
		}
	})

	t.Run("Search failure treats the sheet as empty", func(t *testing.T) {
		table := repo.NewInMemoryTable(partRowFixture("A", "HOPE-10000", "Bolt", "P-1", "1"))
		table.FailOn = func(op, id string) error {
			if op == "search" {
				return errors.New("down")
			}
			return nil
		}
		s := NewSynchronizer(table, WithRetry(fastRetry))

		run := s.Synchronize(context.Background(), hope(), []models.Part{{ID: "B", Name: "Nut", PartNo: "P-2"}})
		if run.Status != models.SyncFailed || run.Deleted != 0 || run.Created != 1 {
			t.Errorf("unexpected run: %+v", run)
		}
	})
}
