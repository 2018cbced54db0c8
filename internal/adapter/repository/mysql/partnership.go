package mysql

import (
	"context"

	partnershipDomain "kitabu-backend/internal/domain/partnership"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PartnershipRepository struct{ db *gorm.DB }

func NewPartnershipRepository(db *gorm.DB) *PartnershipRepository {
	return &PartnershipRepository{db: db}
}

func (r *PartnershipRepository) Create(ctx context.Context, p *partnershipDomain.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PartnershipRepository) GetByIDForUpdate(ctx context.Context, id string) (*partnershipDomain.Project, error) {
	var out partnershipDomain.Project
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *PartnershipRepository) Save(ctx context.Context, p *partnershipDomain.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}
