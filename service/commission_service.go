package service

import (
	"context"

	"github.com/affiliate_network/model"
	"go.uber.org/zap"
)

// Fixed generation commission schedules, level 1 first. The activation
// schedule applies to the one-time activation fee; the package schedule to
// the larger join-with-package amount.
var (
	DefaultActivationSchedule = []float64{5.00, 2.00, 1.00, 0.50, 0.50}
	DefaultPackageSchedule    = []float64{25.00, 10.00, 5.00, 2.50, 2.50}
)

// CommissionOutcome reports one upline's result in a generation
// distribution. Skipped marks an upline excluded by the unlock rule.
type CommissionOutcome struct {
	Level    int     `json:"level"`
	MemberID uint64  `json:"member_id"`
	Amount   float64 `json:"amount"`
	Skipped  bool    `json:"skipped"`
	Err      error   `json:"-"`
}

// Failures returns the outcomes that errored.
func Failures(outcomes []CommissionOutcome) []CommissionOutcome {
	var failed []CommissionOutcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// CommissionService pays the fixed per-level generation schedule up the
// sponsor chain. An upline is paid level N only if it has unlocked it: its
// direct referral count across both legs must be at least N. A locked upline
// is skipped outright, never queued or partially paid.
type CommissionService struct {
	network *NetworkService
	wallet  *WalletService
	log     *zap.Logger
}

func NewCommissionService(network *NetworkService, wallet *WalletService, log *zap.Logger) *CommissionService {
	return &CommissionService{network: network, wallet: wallet, log: log}
}

// Distribute walks source's sponsor chain for as many levels as the schedule
// has and credits each unlocked upline its fixed amount. A failure crediting
// one upline is surfaced in its outcome; the remaining chain is still
// evaluated.
func (s *CommissionService) Distribute(ctx context.Context, source *model.Member, schedule []float64) []CommissionOutcome {
	chain := s.network.UplineChain(source.ID, len(schedule))
	outcomes := make([]CommissionOutcome, 0, len(chain))
	for _, up := range chain {
		amount := schedule[up.Level-1]
		out := CommissionOutcome{Level: up.Level, MemberID: up.Member.ID, Amount: amount}
		if up.Member.Directs() < up.Level {
			out.Skipped = true
			out.Amount = 0
			outcomes = append(outcomes, out)
			continue
		}
		if amount <= 0 {
			outcomes = append(outcomes, out)
			continue
		}
		meta := model.TxMeta{Level: up.Level, SourceMemberID: source.ID}
		if _, err := s.wallet.Credit(ctx, up.Member.ID, model.WalletMain, amount, model.TxGenerationCommission, meta); err != nil {
			out.Err = err
			s.log.Error("generation commission failed",
				zap.Uint64("source", source.ID),
				zap.Uint64("upline", up.Member.ID),
				zap.Int("level", up.Level),
				zap.Error(err))
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}
