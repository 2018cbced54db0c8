package tenant

import "context"

type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	// FindBySlugOrName matches either column case-insensitively.
	FindBySlugOrName(ctx context.Context, ident string) (*Tenant, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}
