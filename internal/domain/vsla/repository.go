package vsla

import "context"

type Repository interface {
	Create(ctx context.Context, v *Vsla) error
	GetByID(ctx context.Context, id string) (*Vsla, error)
	Save(ctx context.Context, v *Vsla) error
	Count(ctx context.Context) (int64, error)

	CreateCycle(ctx context.Context, c *Cycle) error
	// DeactivateCycles clears the active flag on every cycle of vslaID.
	DeactivateCycles(ctx context.Context, vslaID string) error
	// ActiveCycle returns ErrNoActiveCycle when none is open.
	ActiveCycle(ctx context.Context, vslaID string) (*Cycle, error)
}
