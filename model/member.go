package model

import (
	"time"
)

// Membership levels.
const (
	LevelEntry int8 = 1
	LevelMid   int8 = 2
	LevelTop   int8 = 3
)

// Wallet identifies one of the three per-member wallets.
type Wallet string

const (
	WalletMain  Wallet = "main"  // general purpose, receives all earnings
	WalletFee   Wallet = "fee"   // holds funds for the one-time activation fee
	WalletStake Wallet = "stake" // locked investment principal
)

func (w Wallet) Valid() bool {
	switch w {
	case WalletMain, WalletFee, WalletStake:
		return true
	}
	return false
}

// Column returns the members table column backing this wallet.
func (w Wallet) Column() string {
	switch w {
	case WalletFee:
		return "fee_wallet"
	case WalletStake:
		return "stake_wallet"
	default:
		return "main_wallet"
	}
}

// 会员表（members）
// A member sits in two independent structures: the binary placement tree
// (LeftID/RightID) and the sponsor chain (SponsorID). Placement pointers are
// set once at registration and never rewritten by the engine.
type Member struct {
	ID           uint64 `gorm:"primaryKey;column:id" json:"id"`
	Name         string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	ReferralCode string `gorm:"column:referral_code;type:varchar(32);uniqueIndex" json:"referral_code"`

	SponsorID *uint64 `gorm:"column:sponsor_id;index" json:"sponsor_id"`
	LeftID    *uint64 `gorm:"column:left_id" json:"left_id"`
	RightID   *uint64 `gorm:"column:right_id" json:"right_id"`

	Level   int8 `gorm:"column:level;not null;default:1" json:"level"`
	Active  bool `gorm:"column:active;not null;default:false" json:"active"`
	Booster bool `gorm:"column:booster;not null;default:false" json:"booster"`

	MainWallet  float64 `gorm:"column:main_wallet;type:decimal(15,2);not null;default:0" json:"main_wallet"`
	FeeWallet   float64 `gorm:"column:fee_wallet;type:decimal(15,2);not null;default:0" json:"fee_wallet"`
	StakeWallet float64 `gorm:"column:stake_wallet;type:decimal(15,2);not null;default:0" json:"stake_wallet"`

	// progression counters
	EntryPayoutCount int `gorm:"column:entry_payout_count;not null;default:0" json:"entry_payout_count"`
	MidStep          int `gorm:"column:mid_step;not null;default:0" json:"mid_step"` // 0..10
	LeftDirects      int `gorm:"column:left_directs;not null;default:0" json:"left_directs"`
	RightDirects     int `gorm:"column:right_directs;not null;default:0" json:"right_directs"`

	InvestedAmount float64    `gorm:"column:invested_amount;type:decimal(15,2);not null;default:0" json:"invested_amount"`
	InvestedAt     *time.Time `gorm:"column:invested_at" json:"invested_at,omitempty"`
	LastRoiDate    *time.Time `gorm:"column:last_roi_date" json:"last_roi_date,omitempty"`

	TotalEarnings float64 `gorm:"column:total_earnings;type:decimal(15,2);not null;default:0" json:"total_earnings"`
	TotalTds      float64 `gorm:"column:total_tds;type:decimal(15,2);not null;default:0" json:"total_tds"`

	ActivatedAt *time.Time `gorm:"column:activated_at" json:"activated_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdatedAt   time.Time  `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
}

func (Member) TableName() string {
	return "members"
}

// WalletBalance returns the current balance of the given wallet.
func (m *Member) WalletBalance(w Wallet) float64 {
	switch w {
	case WalletFee:
		return m.FeeWallet
	case WalletStake:
		return m.StakeWallet
	default:
		return m.MainWallet
	}
}

// Directs is the member's direct referral count across both legs. It gates
// generation commission: level N is paid only when Directs() >= N.
func (m *Member) Directs() int {
	return m.LeftDirects + m.RightDirects
}

// Principal is the invested amount used for return calculation. Legacy rows
// populated only the stake wallet, so fall back to it when the dedicated
// field is zero.
func (m *Member) Principal() float64 {
	if m.InvestedAmount > 0 {
		return m.InvestedAmount
	}
	return m.StakeWallet
}
