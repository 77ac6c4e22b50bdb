package service

import (
	"context"
	"errors"

	"github.com/affiliate_network/model"
	"github.com/affiliate_network/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// earning kinds also bump the member's lifetime earnings counter.
func isEarningKind(kind string) bool {
	switch kind {
	case model.TxReturnCredit, model.TxGenerationCommission, model.TxResidualReferral:
		return true
	}
	return false
}

// WalletService is the only write path into member wallets. Every balance
// change commits in one transaction with exactly one ledger entry describing
// the same movement.
type WalletService struct {
	db           *gorm.DB
	members      *repository.MemberRepository
	transactions *repository.TransactionRepository
	log          *zap.Logger
}

func NewWalletService(db *gorm.DB,
	members *repository.MemberRepository,
	transactions *repository.TransactionRepository,
	log *zap.Logger) *WalletService {
	return &WalletService{db: db, members: members, transactions: transactions, log: log}
}

// Credit adds amount to the member's wallet and appends the paired ledger
// entry. The two commit or roll back together.
func (s *WalletService) Credit(ctx context.Context, memberID uint64, w model.Wallet, amount float64, kind string, meta model.TxMeta) (*model.Transaction, error) {
	var entry *model.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e error
		entry, e = s.CreditTx(tx, memberID, w, amount, kind, meta)
		return e
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreditTx is Credit running inside a caller-owned transaction, for services
// that bundle the credit with further state changes.
func (s *WalletService) CreditTx(tx *gorm.DB, memberID uint64, w model.Wallet, amount float64, kind string, meta model.TxMeta) (*model.Transaction, error) {
	amount = round2(amount)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !w.Valid() {
		return nil, ErrInvalidWallet
	}
	if err := s.members.CreditWalletTx(tx, memberID, w, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if isEarningKind(kind) {
		if err := s.members.AddEarningsTx(tx, memberID, amount); err != nil {
			return nil, err
		}
	}
	entry := &model.Transaction{
		MemberID:  memberID,
		Wallet:    w,
		Kind:      kind,
		Amount:    amount,
		Currency:  model.DefaultCurrency,
		Reference: uuid.NewString(),
		Meta:      meta,
	}
	if err := s.transactions.CreateTx(tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Debit removes amount from the member's wallet. Fails with
// ErrInsufficientFunds when the balance does not cover it; the wallet can
// never go negative.
func (s *WalletService) Debit(ctx context.Context, memberID uint64, w model.Wallet, amount float64, kind string, meta model.TxMeta) (*model.Transaction, error) {
	var entry *model.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e error
		entry, e = s.DebitTx(tx, memberID, w, amount, kind, meta)
		return e
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DebitTx is Debit inside a caller-owned transaction.
func (s *WalletService) DebitTx(tx *gorm.DB, memberID uint64, w model.Wallet, amount float64, kind string, meta model.TxMeta) (*model.Transaction, error) {
	amount = round2(amount)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !w.Valid() {
		return nil, ErrInvalidWallet
	}
	if _, err := s.members.FindByIDTx(tx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	ok, err := s.members.DebitWalletTx(tx, memberID, w, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientFunds
	}
	entry := &model.Transaction{
		MemberID:  memberID,
		Wallet:    w,
		Kind:      kind,
		Amount:    -amount,
		Currency:  model.DefaultCurrency,
		Reference: uuid.NewString(),
		Meta:      meta,
	}
	if err := s.transactions.CreateTx(tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Transfer moves funds between two wallets of the same member: one guarded
// debit plus one credit, two ledger entries, all in one transaction.
func (s *WalletService) Transfer(ctx context.Context, memberID uint64, from, to model.Wallet, amount float64, note string) error {
	if from == to {
		return ErrInvalidWallet
	}
	meta := model.TxMeta{FromWallet: from, ToWallet: to, Note: note}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.DebitTx(tx, memberID, from, amount, model.TxWalletTransfer, meta); err != nil {
			return err
		}
		_, err := s.CreditTx(tx, memberID, to, amount, model.TxWalletTransfer, meta)
		return err
	})
}

// Balances returns the three wallet balances.
func (s *WalletService) Balances(ctx context.Context, memberID uint64) (main, fee, stake float64, err error) {
	m, e := s.members.FindByID(memberID)
	if e != nil {
		if errors.Is(e, gorm.ErrRecordNotFound) {
			return 0, 0, 0, ErrMemberNotFound
		}
		return 0, 0, 0, e
	}
	return m.MainWallet, m.FeeWallet, m.StakeWallet, nil
}
