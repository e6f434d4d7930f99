package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

var sheetRowsSchema = []string{
	`CREATE TABLE IF NOT EXISTS sheet_rows (
		seq      BIGSERIAL PRIMARY KEY,
		resource TEXT  NOT NULL,
		data     JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sheet_rows_resource_id ON sheet_rows (resource, (data->>'id'))`,
}

// PostgresTable stores the rows of one resource as JSONB documents, keeping
// the schema-less behaviour of the hosted sheet.
type PostgresTable struct {
	db       *sql.DB
	resource string
}

func NewPostgresTable(db *sql.DB, resource string) *PostgresTable {
	return &PostgresTable{db: db, resource: resource}
}

// EnsureSchema creates the shared sheet_rows table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sheetRowsSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create sheet_rows: %w", err)
		}
	}
	return nil
}

func (t *PostgresTable) All(ctx context.Context) ([]Row, error) {
	query := `SELECT data FROM sheet_rows WHERE resource = $1 ORDER BY seq`
	return t.query(ctx, query, t.resource)
}

func (t *PostgresTable) Search(ctx context.Context, field, value string) ([]Row, error) {
	query := `SELECT data FROM sheet_rows WHERE resource = $1 AND data->>$2::text = $3 ORDER BY seq`
	return t.query(ctx, query, t.resource, field, value)
}

func (t *PostgresTable) Create(ctx context.Context, row Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `INSERT INTO sheet_rows (resource, data) VALUES ($1, $2::jsonb)`
	if _, err := t.db.ExecContext(ctx, query, t.resource, string(data)); err != nil {
		return fmt.Errorf("%w: insert %s: %v", ErrUnavailable, t.resource, err)
	}
	return nil
}

func (t *PostgresTable) Update(ctx context.Context, id string, row Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `UPDATE sheet_rows SET data = data || $3::jsonb WHERE resource = $1 AND data->>'id' = $2`
	res, err := t.db.ExecContext(ctx, query, t.resource, id, string(data))
	if err != nil {
		return fmt.Errorf("%w: update %s/%s: %v", ErrUnavailable, t.resource, id, err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}

func (t *PostgresTable) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `DELETE FROM sheet_rows WHERE resource = $1 AND data->>'id' = $2`
	res, err := t.db.ExecContext(ctx, query, t.resource, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", ErrUnavailable, t.resource, id, err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}

func (t *PostgresTable) query(ctx context.Context, query string, args ...any) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrUnavailable, t.resource, err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var r Row
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("failed to decode %s row: %w", t.resource, err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
