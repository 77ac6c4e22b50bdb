package repository

import (
	"context"

	"github.com/affiliate_network/model"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTx appends a ledger entry inside an open transaction so the entry
// commits together with the balance change it describes.
func (r *TransactionRepository) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *TransactionRepository) ListByMember(ctx context.Context, memberID uint64, page, size int) ([]*model.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 20
	}
	var list []*model.Transaction
	var total int64
	offset := (page - 1) * size
	r.db.WithContext(ctx).Model(&model.Transaction{}).Where("member_id = ?", memberID).Count(&total)
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id desc").
		Offset(offset).Limit(size).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// SumByMemberAndWallet totals all signed entries for one wallet. Equal to
// the wallet balance for members whose funds only ever moved through the
// ledger (the conservation invariant).
func (r *TransactionRepository) SumByMemberAndWallet(ctx context.Context, memberID uint64, w model.Wallet) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("member_id = ? AND wallet = ?", memberID, w).
		Scan(&sum).Error
	return sum, err
}

func (r *TransactionRepository) CountByMemberAndKind(ctx context.Context, memberID uint64, kind string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("member_id = ? AND kind = ?", memberID, kind).
		Count(&n).Error
	return n, err
}
