package mysql

import (
	"context"
	"errors"

	vslaDomain "kitabu-backend/internal/domain/vsla"

	"gorm.io/gorm"
)

type VslaRepository struct{ db *gorm.DB }

func NewVslaRepository(db *gorm.DB) *VslaRepository { return &VslaRepository{db: db} }

func (r *VslaRepository) Create(ctx context.Context, v *vslaDomain.Vsla) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VslaRepository) GetByID(ctx context.Context, id string) (*vslaDomain.Vsla, error) {
	var out vslaDomain.Vsla
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *VslaRepository) Save(ctx context.Context, v *vslaDomain.Vsla) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *VslaRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&vslaDomain.Vsla{}).Count(&n).Error
	return n, err
}

func (r *VslaRepository) CreateCycle(ctx context.Context, c *vslaDomain.Cycle) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *VslaRepository) DeactivateCycles(ctx context.Context, vslaID string) error {
	return r.db.WithContext(ctx).Model(&vslaDomain.Cycle{}).
		Where("vsla_id = ? AND is_active = ?", vslaID, true).
		Update("is_active", false).Error
}

func (r *VslaRepository) ActiveCycle(ctx context.Context, vslaID string) (*vslaDomain.Cycle, error) {
	var out vslaDomain.Cycle
	res := r.db.WithContext(ctx).
		Where("vsla_id = ? AND is_active = ?", vslaID, true).
		Order("start_date DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, vslaDomain.ErrNoActiveCycle
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}
