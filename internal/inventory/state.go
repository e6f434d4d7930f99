package inventory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

// State is the in-memory product list shared by the HTTP handlers. Reads
// always come from here; the remote store is only read by Load.
type State struct {
	loader  *Loader
	syncer  *Synchronizer
	entries []catalog.Entry
	logger  *zap.Logger

	mu       sync.RWMutex
	products []models.Product
	status   map[int]models.SyncStatus

	// pending holds the newest desired parts not yet handed to a worker;
	// at most one worker per product is running.
	pending map[int][]models.Part
	running map[int]bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewState(loader *Loader, syncer *Synchronizer, entries []catalog.Entry, logger *zap.Logger) *State {
	ctx, cancel := context.WithCancel(context.Background())
	s := &State{
		loader:   loader,
		syncer:   syncer,
		entries:  entries,
		logger:   logger.Named("state"),
		products: EmptyProducts(entries),
		status:   make(map[int]models.SyncStatus, len(entries)),
		pending:  make(map[int][]models.Part),
		running:  make(map[int]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, e := range entries {
		s.status[e.ID] = models.SyncStatus{ProductID: e.ID, State: models.SyncIdle}
	}
	return s
}

// Load replaces local state with a fresh aggregation of the remote store.
func (s *State) Load(ctx context.Context) {
	products := s.loader.Load(ctx)

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
}

func (s *State) Entries() []catalog.Entry {
	out := make([]catalog.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Products returns a copy of every product in catalog order.
func (s *State) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

func (s *State) Product(id int) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.Product{}, ErrUnknownProduct
}

// UpdateProduct replaces the product's parts locally and reconciles the
// remote store in the background. The local change is never rolled back;
// watch SyncStatus for the outcome. Edits arriving while a run is in
// flight are coalesced: the next run pushes only the newest list.
func (s *State) UpdateProduct(id int, parts []models.Part) error {
	entry, ok := s.entry(id)
	if !ok {
		return ErrUnknownProduct
	}

	desired := make([]models.Part, len(parts))
	copy(desired, parts)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			local := make([]models.Part, len(desired))
			copy(local, desired)
			s.products[i].Parts = local
		}
	}
	st := s.status[id]
	st.State = models.SyncPending
	s.status[id] = st

	s.pending[id] = desired
	if !s.running[id] {
		s.running[id] = true
		s.wg.Add(1)
		go s.worker(entry)
	}
	return nil
}

func (s *State) worker(entry catalog.Entry) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		desired, ok := s.pending[entry.ID]
		if !ok {
			s.running[entry.ID] = false
			s.mu.Unlock()
			return
		}
		delete(s.pending, entry.ID)
		s.mu.Unlock()

		run := s.syncer.Synchronize(s.ctx, entry, desired)

		s.mu.Lock()
		st := s.status[entry.ID]
		st.LastRun = &run
		if _, queued := s.pending[entry.ID]; !queued {
			st.State = run.Status
		}
		s.status[entry.ID] = st
		s.mu.Unlock()

		s.logger.Debug("product synchronized",
			zap.Int("product_id", entry.ID),
			zap.String("status", string(run.Status)),
		)
	}
}

// SyncStatus reports the last known reconciliation state of a product.
func (s *State) SyncStatus(id int) (models.SyncStatus, error) {
	if _, ok := s.entry(id); !ok {
		return models.SyncStatus{}, ErrUnknownProduct
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.status[id]
	if st.LastRun != nil {
		run := *st.LastRun
		st.LastRun = &run
	}
	return st, nil
}

// Wait blocks until every background synchronization started so far is done.
func (s *State) Wait() {
	s.wg.Wait()
}

// Close aborts in-flight synchronizations and waits for them to return.
func (s *State) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *State) entry(id int) (catalog.Entry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return catalog.Entry{}, false
}
