package mysql

import (
	"context"

	expenseDomain "kitabu-backend/internal/domain/expense"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExpenseRepository struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository { return &ExpenseRepository{db: db} }

func (r *ExpenseRepository) Create(ctx context.Context, e *expenseDomain.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*expenseDomain.Expense, error) {
	var out expenseDomain.Expense
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ExpenseRepository) GetByIDForUpdate(ctx context.Context, id string) (*expenseDomain.Expense, error) {
	var out expenseDomain.Expense
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *ExpenseRepository) Save(ctx context.Context, e *expenseDomain.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}
