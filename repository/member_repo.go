package repository

import (
	"context"
	"errors"
	"time"

	"github.com/affiliate_network/model"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// DB exposes the underlying handle for transaction scoping by services.
func (r *MemberRepository) DB() *gorm.DB {
	return r.db
}

func (r *MemberRepository) FindByID(id uint64) (*model.Member, error) {
	var m model.Member
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByIDTx reads a member inside an open transaction.
func (r *MemberRepository) FindByIDTx(tx *gorm.DB, id uint64) (*model.Member, error) {
	var m model.Member
	if err := tx.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) Create(m *model.Member) error {
	return r.db.Create(m).Error
}

func (r *MemberRepository) Save(m *model.Member) error {
	return r.db.Save(m).Error
}

// ListInvestors returns members with a positive principal in either the
// dedicated invested-amount field or the stake wallet (legacy rows populated
// only one of the two).
func (r *MemberRepository) ListInvestors(ctx context.Context) ([]*model.Member, error) {
	var list []*model.Member
	err := r.db.WithContext(ctx).
		Where("invested_amount > 0 OR stake_wallet > 0").
		Order("id asc").
		Find(&list).Error
	return list, err
}

// ListBoosted returns active members eligible for binary-leveling payouts.
func (r *MemberRepository) ListBoosted(ctx context.Context) ([]*model.Member, error) {
	var list []*model.Member
	err := r.db.WithContext(ctx).
		Where("active = ? AND booster = ?", true, true).
		Order("id asc").
		Find(&list).Error
	return list, err
}

// CreditWalletTx adds amount to the given wallet inside an open transaction.
func (r *MemberRepository) CreditWalletTx(tx *gorm.DB, id uint64, w model.Wallet, amount float64) error {
	col := w.Column()
	res := tx.Model(&model.Member{}).
		Where("id = ?", id).
		UpdateColumn(col, gorm.Expr(col+" + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DebitWalletTx subtracts amount from the given wallet, guarded so the
// balance can never go negative. Returns false when funds are insufficient.
func (r *MemberRepository) DebitWalletTx(tx *gorm.DB, id uint64, w model.Wallet, amount float64) (bool, error) {
	col := w.Column()
	res := tx.Model(&model.Member{}).
		Where("id = ? AND "+col+" >= ?", id, amount).
		UpdateColumn(col, gorm.Expr(col+" - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddEarningsTx bumps the lifetime earnings counter.
func (r *MemberRepository) AddEarningsTx(tx *gorm.DB, id uint64, amount float64) error {
	return tx.Model(&model.Member{}).
		Where("id = ?", id).
		UpdateColumn("total_earnings", gorm.Expr("total_earnings + ?", amount)).Error
}

// ClaimDailyReturnTx atomically sets the last-credit marker to day, but only
// if no credit has been recorded for that day yet. The check and the set are
// one UPDATE so two concurrent runs cannot both claim the same member.
func (r *MemberRepository) ClaimDailyReturnTx(tx *gorm.DB, id uint64, day time.Time) (bool, error) {
	res := tx.Model(&model.Member{}).
		Where("id = ? AND (last_roi_date IS NULL OR last_roi_date < ?)", id, day).
		UpdateColumn("last_roi_date", day)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkActiveTx flips the activation flag, guarded against a concurrent
// activation of the same member. Returns false when already active.
func (r *MemberRepository) MarkActiveTx(tx *gorm.DB, id uint64, at time.Time) (bool, error) {
	res := tx.Model(&model.Member{}).
		Where("id = ? AND active = ?", id, false).
		UpdateColumns(map[string]interface{}{"active": true, "activated_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AttachChild sets the parent's left or right placement pointer. The pointer
// is write-once: a second attach on an occupied leg fails.
func (r *MemberRepository) AttachChild(parentID, childID uint64, leftLeg bool) error {
	col := "right_id"
	if leftLeg {
		col = "left_id"
	}
	res := r.db.Model(&model.Member{}).
		Where("id = ? AND "+col+" IS NULL", parentID).
		UpdateColumn(col, childID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("placement leg already occupied")
	}
	return nil
}

// BumpDirects increments the sponsor's per-leg direct referral counter.
func (r *MemberRepository) BumpDirects(sponsorID uint64, leftLeg bool) error {
	col := "right_directs"
	if leftLeg {
		col = "left_directs"
	}
	return r.db.Model(&model.Member{}).
		Where("id = ?", sponsorID).
		UpdateColumn(col, gorm.Expr(col+" + 1")).Error
}
