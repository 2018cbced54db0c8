package expense

import "context"

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id string) (*Expense, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Expense, error)
	Save(ctx context.Context, e *Expense) error
}
