package audit

import "context"

// Repository is append-only.
type Repository interface {
	Create(ctx context.Context, l *Log) error
}
