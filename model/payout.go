package model

import (
	"time"
)

// 双轨奖金表（binary_payouts）
// Legacy record for binary-leveling payouts. Distinct from the ledger:
// flat-rate TDS is withheld here and only here, ledger credits are gross.
type Payout struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	MemberID    uint64    `gorm:"column:member_id;not null;index" json:"member_id"`
	Level       int8      `gorm:"column:level;not null" json:"level"`
	Step        int       `gorm:"column:step;not null;default:0" json:"step"` // mid-level step paid, 0 for entry pairs
	GrossAmount float64   `gorm:"column:gross_amount;type:decimal(15,2);not null" json:"gross_amount"`
	TdsAmount   float64   `gorm:"column:tds_amount;type:decimal(15,2);not null" json:"tds_amount"`
	NetAmount   float64   `gorm:"column:net_amount;type:decimal(15,2);not null" json:"net_amount"`
	LeftPairs   int       `gorm:"column:left_pairs;not null" json:"left_pairs"`
	RightPairs  int       `gorm:"column:right_pairs;not null" json:"right_pairs"`
	CycleDate   time.Time `gorm:"column:cycle_date;not null;index" json:"cycle_date"`
	CreatedAt   time.Time `gorm:"column:create_time;autoCreateTime" json:"create_time"`
}

func (Payout) TableName() string {
	return "binary_payouts"
}
