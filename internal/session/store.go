// Package session persists logged-in users between requests.
package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

// KeyPrefix namespaces session slots in shared stores.
const KeyPrefix = "stockUser:"

var ErrNoSession = errors.New("no session")

// Store keeps one session per slot id.
type Store interface {
	Save(ctx context.Context, sid string, s models.Session) error
	// Load returns ErrNoSession when the slot is empty or unreadable.
	Load(ctx context.Context, sid string) (models.Session, error)
	Clear(ctx context.Context, sid string) error
	Close() error
}

func key(sid string) string {
	return KeyPrefix + sid
}

func encode(s models.Session) ([]byte, error) {
	return json.Marshal(s)
}

func decode(b []byte) (models.Session, error) {
	var s models.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return models.Session{}, err
	}
	return s, nil
}
