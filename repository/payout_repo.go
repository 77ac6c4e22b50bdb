package repository

import (
	"context"

	"github.com/affiliate_network/model"
	"gorm.io/gorm"
)

type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) CreateTx(tx *gorm.DB, p *model.Payout) error {
	return tx.Create(p).Error
}

func (r *PayoutRepository) ListByMember(ctx context.Context, memberID uint64, page, size int) ([]*model.Payout, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 20
	}
	var list []*model.Payout
	var total int64
	offset := (page - 1) * size
	r.db.WithContext(ctx).Model(&model.Payout{}).Where("member_id = ?", memberID).Count(&total)
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id desc").
		Offset(offset).Limit(size).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PayoutRepository) CountByMemberAndLevel(ctx context.Context, memberID uint64, level int8) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Payout{}).
		Where("member_id = ? AND level = ?", memberID, level).
		Count(&n).Error
	return n, err
}
