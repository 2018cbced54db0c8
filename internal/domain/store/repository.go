package store

import "context"

type Repository interface {
	// Load returns every collection, audit log most recent first.
	Load(ctx context.Context) (*Snapshot, error)
	// Replace wipes the store and writes s in its place.
	Replace(ctx context.Context, s *Snapshot) error
}
