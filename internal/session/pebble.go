package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

// PebbleStore keeps sessions in an embedded Pebble database so they survive
// restarts of a single-node deployment.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) Save(ctx context.Context, sid string, s models.Session) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	return p.db.Set([]byte(key(sid)), b, pebble.Sync)
}

func (p *PebbleStore) Load(ctx context.Context, sid string) (models.Session, error) {
	v, closer, err := p.db.Get([]byte(key(sid)))
	if errors.Is(err, pebble.ErrNotFound) {
		return models.Session{}, ErrNoSession
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	s, derr := decode(v)
	_ = closer.Close()

	if derr != nil {
		_ = p.Clear(ctx, sid)
		return models.Session{}, ErrNoSession
	}
	return s, nil
}

func (p *PebbleStore) Clear(ctx context.Context, sid string) error {
	return p.db.Delete([]byte(key(sid)), pebble.Sync)
}

func (p *PebbleStore) Close() error { return p.db.Close() }

// put writes raw bytes under a slot; tests use it to plant corrupt values.
func (p *PebbleStore) put(sid string, raw []byte) error {
	return p.db.Set([]byte(key(sid)), raw, pebble.Sync)
}
