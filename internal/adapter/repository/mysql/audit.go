package mysql

import (
	"context"

	auditDomain "kitabu-backend/internal/domain/audit"

	"gorm.io/gorm"
)

// AuditRepository is append-only.
type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Create(ctx context.Context, l *auditDomain.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}
