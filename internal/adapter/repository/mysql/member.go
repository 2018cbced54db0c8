package mysql

import (
	"context"

	memberDomain "kitabu-backend/internal/domain/member"

	"gorm.io/gorm"
)

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) Create(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *MemberRepository) FindByIdentity(ctx context.Context, nationalID, phone string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	q := r.db.WithContext(ctx)
	switch {
	case nationalID != "" && phone != "":
		q = q.Where("national_id = ? OR phone = ?", nationalID, phone)
	case nationalID != "":
		q = q.Where("national_id = ?", nationalID)
	case phone != "":
		q = q.Where("phone = ?", phone)
	default:
		return nil, gorm.ErrRecordNotFound
	}
	res := q.Order("join_date ASC").Order("member_ky_id ASC").First(&out)
	return &out, res.Error
}

func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&memberDomain.Member{}).Count(&n).Error
	return n, err
}
