package model

import (
	"fmt"
	"time"
)

// Ledger entry kinds.
const (
	TxReturnCredit         = "RETURN_CREDIT"         // daily staking return
	TxGenerationCommission = "GENERATION_COMMISSION" // fixed-schedule upline commission
	TxResidualReferral     = "RESIDUAL_REFERRAL"     // percentage of a downline's return
	TxActivation           = "ACTIVATION"            // one-time activation fee debit
	TxWalletTransfer       = "WALLET_TRANSFER"       // movement between own wallets / manual adjustment
)

const DefaultCurrency = "USD"

// TxMeta is the kind-specific payload of a ledger entry. Only the fields
// relevant to the entry's kind are set; consumers switch on Transaction.Kind.
type TxMeta struct {
	// generation commission / residual referral
	Level          int    `json:"level,omitempty"`
	SourceMemberID uint64 `json:"source_member_id,omitempty"`

	// return credit
	InvestedAmount float64 `json:"invested_amount,omitempty"`
	Rate           float64 `json:"rate,omitempty"`
	Period         string  `json:"period,omitempty"` // YYYY-MM-DD

	// wallet transfer
	FromWallet Wallet `json:"from_wallet,omitempty"`
	ToWallet   Wallet `json:"to_wallet,omitempty"`

	Note string `json:"note,omitempty"`
}

// 钱包账本表（wallet_transactions）
// Append-only: entries are created once per logical movement and never
// mutated or deleted. Amount is signed (credit > 0, debit < 0) and the
// owning wallet's balance change equals the entry's amount.
type Transaction struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	MemberID  uint64    `gorm:"column:member_id;not null;index" json:"member_id"`
	Wallet    Wallet    `gorm:"column:wallet;type:varchar(16);not null" json:"wallet"`
	Kind      string    `gorm:"column:kind;type:varchar(32);not null;index" json:"kind"`
	Amount    float64   `gorm:"column:amount;type:decimal(15,2);not null" json:"amount"`
	Currency  string    `gorm:"column:currency;type:varchar(8);not null;default:USD" json:"currency"`
	Reference string    `gorm:"column:reference;type:varchar(64);index" json:"reference"`
	Meta      TxMeta    `gorm:"column:meta;serializer:json" json:"meta"`
	CreatedAt time.Time `gorm:"column:create_time;autoCreateTime" json:"create_time"`
}

func (Transaction) TableName() string {
	return "wallet_transactions"
}

// Describe renders a human-readable reason line for reporting. Every kind is
// handled explicitly so a new kind fails loudly in review rather than
// rendering an empty reason.
func (t *Transaction) Describe() string {
	switch t.Kind {
	case TxReturnCredit:
		return fmt.Sprintf("daily return on %.2f at %.2f%% for %s", t.Meta.InvestedAmount, t.Meta.Rate*100, t.Meta.Period)
	case TxGenerationCommission:
		return fmt.Sprintf("generation commission L%d from member %d", t.Meta.Level, t.Meta.SourceMemberID)
	case TxResidualReferral:
		return fmt.Sprintf("referral income L%d from member %d", t.Meta.Level, t.Meta.SourceMemberID)
	case TxActivation:
		return fmt.Sprintf("activation fee from %s wallet", t.Meta.FromWallet)
	case TxWalletTransfer:
		return fmt.Sprintf("transfer %s -> %s: %s", t.Meta.FromWallet, t.Meta.ToWallet, t.Meta.Note)
	default:
		return fmt.Sprintf("unknown kind %q", t.Kind)
	}
}
