package ledger

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	Save(ctx context.Context, t *Transaction) error
}
