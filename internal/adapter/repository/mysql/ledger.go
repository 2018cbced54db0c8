package mysql

import (
	"context"

	ledgerDomain "kitabu-backend/internal/domain/ledger"

	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Create(ctx context.Context, t *ledgerDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*ledgerDomain.Transaction, error) {
	var out ledgerDomain.Transaction
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LedgerRepository) Save(ctx context.Context, t *ledgerDomain.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}
