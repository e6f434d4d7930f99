package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/events"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/metrics"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
)

// timestampLayout matches the millisecond UTC timestamps already in the sheet.
const timestampLayout = "2006-01-02T15:04:05.000Z"

type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, InitialBackoff: 500 * time.Millisecond, MaxBackoff: 5 * time.Second}

// ErrDuplicatePartID marks a desired part whose id is empty or already used
// earlier in the same list. Such a part is not written.
var ErrDuplicatePartID = errors.New("part id missing or repeated")

// Synchronizer reconciles one product's desired parts with the product_parts
// sheet. Requests are issued one at a time.
type Synchronizer struct {
	parts     repo.Table
	history   repo.SyncRunRepository
	publisher events.Publisher
	logger    *zap.Logger
	metrics   *metrics.Registry
	retry     RetryPolicy
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

type SynchronizerOption func(*Synchronizer)

func WithHistory(h repo.SyncRunRepository) SynchronizerOption {
	return func(s *Synchronizer) { s.history = h }
}

func WithPublisher(p events.Publisher) SynchronizerOption {
	return func(s *Synchronizer) { s.publisher = p }
}

func WithLogger(l *zap.Logger) SynchronizerOption {
	return func(s *Synchronizer) { s.logger = l.Named("synchronizer") }
}

func WithMetrics(m *metrics.Registry) SynchronizerOption {
	return func(s *Synchronizer) { s.metrics = m }
}

func WithRetry(p RetryPolicy) SynchronizerOption {
	return func(s *Synchronizer) { s.retry = p }
}

func WithClock(now func() time.Time) SynchronizerOption {
	return func(s *Synchronizer) { s.now = now }
}

func NewSynchronizer(parts repo.Table, opts ...SynchronizerOption) *Synchronizer {
	s := &Synchronizer{
		parts:     parts,
		publisher: events.Noop{},
		logger:    zap.NewNop(),
		retry:     DefaultRetryPolicy,
		now:       time.Now,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Synchronize deletes remote rows missing from desired, updates rows whose id
// already exists and creates the rest. Failures are retried, logged and
// counted in the returned run; they are never returned to the caller.
func (s *Synchronizer) Synchronize(ctx context.Context, entry catalog.Entry, desired []models.Part) models.SyncRun {
	run := models.SyncRun{
		ProductID:   entry.ID,
		ProductName: entry.Name,
		StartedAt:   s.now(),
	}
	log := s.logger.With(zap.String("product", entry.Name))
	var lastErr error

	var existing []repo.Row
	err := s.attempt(ctx, "search", func(ctx context.Context) error {
		var err error
		existing, err = s.parts.Search(ctx, fieldProductName, entry.Name)
		return err
	})
	if err != nil {
		log.Warn("failed to read existing parts, treating as empty", zap.Error(err))
		existing = nil
		lastErr = err
	}

	desiredIDs := make(map[string]bool, len(desired))
	for _, p := range desired {
		desiredIDs[p.ID] = true
	}
	existingByID := make(map[string]repo.Row, len(existing))
	for _, row := range existing {
		if _, ok := existingByID[row[fieldID]]; !ok {
			existingByID[row[fieldID]] = row
		}
	}

	deleted := map[string]bool{}
	for _, row := range existing {
		id := row[fieldID]
		// rows without id cannot be addressed and are never aggregated
		if id == "" || desiredIDs[id] || deleted[id] {
			continue
		}
		deleted[id] = true

		err := s.attempt(ctx, "delete", func(ctx context.Context) error {
			return s.parts.Delete(ctx, id)
		})
		if err != nil && !errors.Is(err, repo.ErrRowNotFound) {
			log.Error("failed to delete part", zap.String("id", id), zap.Error(err))
			run.Failed++
			lastErr = err
			continue
		}
		run.Deleted++
	}

	written := make(map[string]bool, len(desired))
	for _, part := range desired {
		if part.ID == "" || written[part.ID] {
			log.Error("part id missing or repeated, not written", zap.String("id", part.ID), zap.String("part_no", part.PartNo))
			run.Failed++
			lastErr = fmt.Errorf("%w: %q", ErrDuplicatePartID, part.ID)
			continue
		}
		written[part.ID] = true

		current, exists := existingByID[part.ID]
		if part.CreatedAt == "" && exists {
			part.CreatedAt = current[fieldCreatedAt]
		}
		row := s.partRow(entry.Name, part)

		if exists {
			err := s.attempt(ctx, "update", func(ctx context.Context) error {
				return s.parts.Update(ctx, part.ID, row)
			})
			if err == nil {
				run.Updated++
				continue
			}
			if !errors.Is(err, repo.ErrRowNotFound) {
				log.Error("failed to update part", zap.String("id", part.ID), zap.Error(err))
				run.Failed++
				lastErr = err
				continue
			}
			// the row vanished since the search; recreate it
		}

		err := s.attempt(ctx, "create", func(ctx context.Context) error {
			return s.parts.Create(ctx, row)
		})
		if err != nil {
			log.Error("failed to create part", zap.String("id", part.ID), zap.Error(err))
			run.Failed++
			lastErr = err
			continue
		}
		run.Created++
	}

	run.FinishedAt = s.now()
	run.Status = models.SyncOK
	if run.Failed > 0 || lastErr != nil {
		run.Status = models.SyncFailed
	}
	if lastErr != nil {
		run.Error = lastErr.Error()
	}

	return s.finish(ctx, log, run, len(desired))
}

func (s *Synchronizer) finish(ctx context.Context, log *zap.Logger, run models.SyncRun, partCount int) models.SyncRun {
	if s.history != nil {
		logged, err := s.history.Log(run)
		if err != nil {
			log.Warn("failed to record sync run", zap.Error(err))
		} else {
			run = logged
		}
	}

	if s.metrics != nil {
		s.metrics.SyncRuns.WithLabelValues(string(run.Status)).Inc()
		s.metrics.SyncDuration.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	}

	err := s.publisher.PublishPartsSynced(ctx, events.PartsSynced{
		ProductID:   run.ProductID,
		ProductName: run.ProductName,
		Status:      run.Status,
		Deleted:     run.Deleted,
		Updated:     run.Updated,
		Created:     run.Created,
		Failed:      run.Failed,
		PartCount:   partCount,
		At:          run.FinishedAt,
	})
	if err != nil {
		log.Warn("failed to publish sync event", zap.Error(err))
	}

	log.Info("parts synchronized",
		zap.String("status", string(run.Status)),
		zap.Int("deleted", run.Deleted),
		zap.Int("updated", run.Updated),
		zap.Int("created", run.Created),
		zap.Int("failed", run.Failed),
		zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)))
	return run
}

// partRow is the full field set written for a part. createdAt is kept when
// the part already has one; updatedAt is always fresh.
func (s *Synchronizer) partRow(productName string, p models.Part) repo.Row {
	now := s.now().UTC().Format(timestampLayout)
	createdAt := p.CreatedAt
	if createdAt == "" {
		createdAt = now
	}
	return repo.Row{
		fieldID:          p.ID,
		fieldProductName: productName,
		fieldPartName:    p.Name,
		fieldPartNo:      p.PartNo,
		fieldQuantity:    strconv.Itoa(p.Quantity),
		fieldVendor:      p.Vendor,
		fieldIsNew:       strconv.FormatBool(p.IsNew),
		fieldCreatedAt:   createdAt,
		fieldUpdatedAt:   now,
	}
}

// attempt runs fn with exponential backoff. ErrRowNotFound is final.
func (s *Synchronizer) attempt(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := max(s.retry.MaxAttempts, 1)
	backoff := s.retry.InitialBackoff

	var err error
	for i := 1; i <= attempts; i++ {
		err = fn(ctx)
		if err == nil || errors.Is(err, repo.ErrRowNotFound) {
			break
		}
		if i == attempts {
			break
		}
		if serr := s.sleep(ctx, backoff); serr != nil {
			err = fmt.Errorf("%w (gave up: %v)", err, serr)
			break
		}
		backoff = min(backoff*2, max(s.retry.MaxBackoff, s.retry.InitialBackoff))
	}

	if s.metrics != nil {
		outcome := "ok"
		switch {
		case errors.Is(err, repo.ErrRowNotFound):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
		}
		s.metrics.RemoteRequests.WithLabelValues(op, outcome).Inc()
	}
	return err
}
