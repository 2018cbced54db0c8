package replication

import (
	"context"
	"errors"
	"time"

	"kitabu-backend/internal/domain/store"
)

var (
	ErrDisabled   = errors.New("remote sync is not configured")
	ErrSyncFailed = errors.New("remote sync failed")
)

type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Remote is the spreadsheet-backed service. FetchLatest returns nil, nil
// when the service holds nothing for the tenant.
type Remote interface {
	Push(ctx context.Context, tenantID string, payload []byte) error
	FetchLatest(ctx context.Context, tenantID string) ([]byte, error)
}

// Envelope is the wire payload of one push: the whole store plus routing fields.
type Envelope struct {
	SyncID          string    `json:"sync_id"`
	CurrentTenantID string    `json:"current_tenant_id"`
	SyncedAt        time.Time `json:"synced_at"`
	*store.Snapshot
}

type Status struct {
	State        State      `json:"state"`
	Enabled      bool       `json:"enabled"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}
