package mysql

import (
	"context"

	projectDomain "kitabu-backend/internal/domain/project"

	"gorm.io/gorm"
)

type ProjectRepository struct{ db *gorm.DB }

func NewProjectRepository(db *gorm.DB) *ProjectRepository { return &ProjectRepository{db: db} }

func (r *ProjectRepository) Create(ctx context.Context, p *projectDomain.InvestmentProject) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*projectDomain.InvestmentProject, error) {
	var out projectDomain.InvestmentProject
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ProjectRepository) CreateTransaction(ctx context.Context, t *projectDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ProjectRepository) ListTransactions(ctx context.Context, projectID string) ([]projectDomain.Transaction, error) {
	out := []projectDomain.Transaction{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("date ASC").
		Find(&out).Error
	return out, err
}
