package repo

import (
	"context"
	"errors"
)

// Row is one record of a remote sheet. Every cell travels as a string; typing
// is the caller's job on both read and write.
type Row map[string]string

// Clone copies r so callers can keep it after the table changes.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is a remote tabular resource addressed by row id and single-field searches.
type Table interface {
	All(ctx context.Context) ([]Row, error)
	Search(ctx context.Context, field, value string) ([]Row, error)
	Create(ctx context.Context, row Row) error
	Update(ctx context.Context, id string, row Row) error
	Delete(ctx context.Context, id string) error
}

// Resource names of the two sheets the dashboard uses.
const (
	ResourceUsers        = "users"
	ResourceProductParts = "product_parts"
)

var (
	// ErrUnavailable wraps every failure to reach the backing store.
	ErrUnavailable = errors.New("tabular store unavailable")
	// ErrRowNotFound is returned by Update and Delete when no row has the id.
	ErrRowNotFound = errors.New("row not found")
)
