package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

const syncRunsSchema = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id           SERIAL PRIMARY KEY,
	product_id   INT         NOT NULL,
	product_name TEXT        NOT NULL,
	status       TEXT        NOT NULL,
	deleted      INT         NOT NULL DEFAULT 0,
	updated      INT         NOT NULL DEFAULT 0,
	created      INT         NOT NULL DEFAULT 0,
	failed       INT         NOT NULL DEFAULT 0,
	error        TEXT        NOT NULL DEFAULT '',
	started_at   TIMESTAMPTZ NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL
);`

type PostgresSyncRunRepository struct {
	db *sql.DB
}

func NewPostgresSyncRunRepository(db *sql.DB) *PostgresSyncRunRepository {
	return &PostgresSyncRunRepository{db: db}
}

func (r *PostgresSyncRunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, syncRunsSchema); err != nil {
		return fmt.Errorf("failed to create sync_runs: %w", err)
	}
	return nil
}

// Log inserts a finished synchronization run
func (r *PostgresSyncRunRepository) Log(run models.SyncRun) (models.SyncRun, error) {
	query := `INSERT INTO sync_runs (product_id, product_name, status, deleted, updated, created, failed, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, run.ProductID, run.ProductName, string(run.Status),
		run.Deleted, run.Updated, run.Created, run.Failed, run.Error, run.StartedAt.UTC(), run.FinishedAt.UTC()).Scan(&run.ID)
	if err != nil {
		return models.SyncRun{}, fmt.Errorf("failed to insert sync run: %w", err)
	}
	return run, nil
}

// GetByProductID returns the runs of a product, newest first
func (r *PostgresSyncRunRepository) GetByProductID(productID int, f SyncRunFilter) ([]models.SyncRun, int, error) {
	if f.Offset != nil && *f.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	whereClause, args := buildSyncRunWhere(productID, f)

	total, err := r.getTotal(whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}
	if f.Offset != nil && *f.Offset >= total {
		return []models.SyncRun{}, total, nil
	}

	query, queryArgs := buildSyncRunQuery(whereClause, args, f)
	runs, err := r.executeQuery(query, queryArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	return runs, total, nil
}

func buildSyncRunWhere(productID int, f SyncRunFilter) (string, []any) {
	args := []any{productID}
	whereClause := "WHERE product_id = $1"
	argIndex := 2

	if f.Since != nil {
		whereClause += fmt.Sprintf(" AND started_at >= $%d", argIndex)
		args = append(args, *f.Since)
		argIndex++
	}
	if f.Until != nil {
		whereClause += fmt.Sprintf(" AND started_at <= $%d", argIndex)
		args = append(args, *f.Until)
	}
	return whereClause, args
}

func buildSyncRunQuery(whereClause string, baseArgs []any, f SyncRunFilter) (string, []any) {
	query := fmt.Sprintf(`SELECT id, product_id, product_name, status, deleted, updated, created, failed, error, started_at, finished_at
		FROM sync_runs %s ORDER BY started_at DESC, id DESC`, whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)
	argIndex := len(baseArgs) + 1

	limit := defaultLimit
	if f.Limit != nil && *f.Limit > 0 {
		limit = min(*f.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if f.Offset != nil && *f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *f.Offset)
	}
	return query, args
}

func (r *PostgresSyncRunRepository) getTotal(whereClause string, args []any) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sync_runs "+whereClause, args...).Scan(&total)
	return total, err
}

func (r *PostgresSyncRunRepository) executeQuery(query string, args []any) ([]models.SyncRun, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []models.SyncRun{}
	for rows.Next() {
		var run models.SyncRun
		var status string
		if err := rows.Scan(&run.ID, &run.ProductID, &run.ProductName, &status, &run.Deleted, &run.Updated,
			&run.Created, &run.Failed, &run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		run.Status = models.SyncState(status)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
