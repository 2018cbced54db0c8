package partnership

import "context"

type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByIDForUpdate(ctx context.Context, id string) (*Project, error)
	Save(ctx context.Context, p *Project) error
}
