package models

import "time"

type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncPending SyncState = "pending"
	SyncOK      SyncState = "ok"
	SyncFailed  SyncState = "failed"
)

// SyncRun records one reconciliation of a product's parts against the remote store.
type SyncRun struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name"`
	Status      SyncState `json:"status"`
	Deleted     int       `json:"deleted"`
	Updated     int       `json:"updated"`
	Created     int       `json:"created"`
	Failed      int       `json:"failed"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

type SyncStatus struct {
	ProductID int       `json:"product_id"`
	State     SyncState `json:"state"`
	LastRun   *SyncRun  `json:"last_run,omitempty"`
}
