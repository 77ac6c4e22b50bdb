package service

import (
	"context"
	"errors"

	"github.com/affiliate_network/model"
	"github.com/affiliate_network/repository"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DEFAULT_ACTIVATION_FEE = 10.00

// ActivationResult reports the fee movement and the commission cascade
// triggered by it.
type ActivationResult struct {
	MemberID    uint64              `json:"member_id"`
	Fee         float64             `json:"fee"`
	Wallet      model.Wallet        `json:"wallet"`
	Balance     float64             `json:"balance"`
	Commissions []CommissionOutcome `json:"commissions"`
}

// ActivationService handles the one-time fee event that makes a member
// eligible to participate and triggers upline generation commission.
type ActivationService struct {
	db         *gorm.DB
	members    *repository.MemberRepository
	wallet     *WalletService
	commission *CommissionService
	clock      clockwork.Clock
	log        *zap.Logger

	fee      float64
	schedule []float64
}

func NewActivationService(db *gorm.DB,
	members *repository.MemberRepository,
	wallet *WalletService,
	commission *CommissionService,
	clock clockwork.Clock,
	log *zap.Logger,
	fee float64,
	schedule []float64) *ActivationService {
	if fee <= 0 {
		fee = DEFAULT_ACTIVATION_FEE
	}
	if len(schedule) == 0 {
		schedule = DefaultActivationSchedule
	}
	return &ActivationService{
		db:         db,
		members:    members,
		wallet:     wallet,
		commission: commission,
		clock:      clock,
		log:        log,
		fee:        fee,
		schedule:   schedule,
	}
}

// Activate debits the fee from the given wallet, marks the member active and
// distributes generation commission up the sponsor chain. The debit, ledger
// entry and activation flag commit atomically; a concurrent second attempt
// loses the guarded update and gets ErrAlreadyActive.
func (s *ActivationService) Activate(ctx context.Context, memberID uint64, feeWallet model.Wallet) (*ActivationResult, error) {
	m, err := s.members.FindByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if m.Active {
		return nil, ErrAlreadyActive
	}
	if !feeWallet.Valid() {
		return nil, ErrInvalidWallet
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.members.MarkActiveTx(tx, memberID, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyActive
		}
		meta := model.TxMeta{FromWallet: feeWallet, Note: "membership activation"}
		_, err = s.wallet.DebitTx(tx, memberID, feeWallet, s.fee, model.TxActivation, meta)
		return err
	})
	if err != nil {
		return nil, err
	}

	// The fee is committed; commission failures are partial-success states
	// reported to the caller and logged, never a rollback of the activation.
	outcomes := s.commission.Distribute(ctx, m, s.schedule)
	for _, f := range Failures(outcomes) {
		s.log.Error("activation commission failed",
			zap.Uint64("member", memberID),
			zap.Uint64("upline", f.MemberID),
			zap.Int("level", f.Level),
			zap.Error(f.Err))
	}

	updated, err := s.members.FindByID(memberID)
	if err != nil {
		return nil, err
	}
	return &ActivationResult{
		MemberID:    memberID,
		Fee:         s.fee,
		Wallet:      feeWallet,
		Balance:     updated.WalletBalance(feeWallet),
		Commissions: outcomes,
	}, nil
}
