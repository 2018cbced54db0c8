package mysql

import (
	"context"
	"strings"

	tenantDomain "kitabu-backend/internal/domain/tenant"

	"gorm.io/gorm"
)

type TenantRepository struct{ db *gorm.DB }

func NewTenantRepository(db *gorm.DB) *TenantRepository { return &TenantRepository{db: db} }

func (r *TenantRepository) Create(ctx context.Context, t *tenantDomain.Tenant) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*tenantDomain.Tenant, error) {
	var out tenantDomain.Tenant
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *TenantRepository) FindBySlugOrName(ctx context.Context, ident string) (*tenantDomain.Tenant, error) {
	var out tenantDomain.Tenant
	key := strings.ToLower(strings.TrimSpace(ident))
	res := r.db.WithContext(ctx).
		Where("LOWER(slug) = ? OR LOWER(name) = ?", key, key).
		First(&out)
	return &out, res.Error
}

func (r *TenantRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&tenantDomain.Tenant{}).
		Where("id LIKE ?", prefix+"%").
		Count(&n).Error
	return n, err
}
