package project

import "context"

type Repository interface {
	Create(ctx context.Context, p *InvestmentProject) error
	GetByID(ctx context.Context, id string) (*InvestmentProject, error)
	CreateTransaction(ctx context.Context, t *Transaction) error
	ListTransactions(ctx context.Context, projectID string) ([]Transaction, error)
}
