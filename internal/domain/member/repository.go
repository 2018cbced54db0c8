package member

import "context"

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	// FindByIdentity returns the earliest member matching either value;
	// empty values never match.
	FindByIdentity(ctx context.Context, nationalID, phone string) (*Member, error)
	Count(ctx context.Context) (int64, error)
}
