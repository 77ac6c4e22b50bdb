package service

import (
	"context"
	"fmt"
	"time"

	"github.com/affiliate_network/model"
	"github.com/affiliate_network/repository"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Monthly return tiers by invested principal. Lower bounds inclusive.
const (
	TIER1_MIN  = 100.0
	TIER2_MIN  = 1000.0
	TIER3_MIN  = 4000.0
	TIER4_MIN  = 6000.0
	TIER5_MIN  = 10000.0
	TIER1_RATE = 0.04
	TIER2_RATE = 0.05
	TIER3_RATE = 0.06
	TIER4_RATE = 0.07
	TIER5_RATE = 0.08
)

// DailyReturnResult is the aggregate outcome of one daily run.
type DailyReturnResult struct {
	Date             string  `json:"date"`
	Processed        int     `json:"processed"`
	Skipped          int     `json:"skipped"`
	Failed           int     `json:"failed"`
	ReferralFailures int     `json:"referral_failures"`
	TotalCredited    float64 `json:"total_credited"`
}

// RoiService computes and distributes the daily staking return. A member is
// credited at most once per calendar day; re-runs on the same date skip
// already-credited members.
type RoiService struct {
	db       *gorm.DB
	members  *repository.MemberRepository
	jobRuns  *repository.JobRunRepository
	wallet   *WalletService
	referral *ReferralService
	clock    clockwork.Clock
	log      *zap.Logger
}

func NewRoiService(db *gorm.DB,
	members *repository.MemberRepository,
	jobRuns *repository.JobRunRepository,
	wallet *WalletService,
	referral *ReferralService,
	clock clockwork.Clock,
	log *zap.Logger) *RoiService {
	return &RoiService{
		db:       db,
		members:  members,
		jobRuns:  jobRuns,
		wallet:   wallet,
		referral: referral,
		clock:    clock,
		log:      log,
	}
}

// MonthlyRate returns the monthly rate for a principal, zero below the first
// tier.
func MonthlyRate(principal float64) float64 {
	switch {
	case principal >= TIER5_MIN:
		return TIER5_RATE
	case principal >= TIER4_MIN:
		return TIER4_RATE
	case principal >= TIER3_MIN:
		return TIER3_RATE
	case principal >= TIER2_MIN:
		return TIER2_RATE
	case principal >= TIER1_MIN:
		return TIER1_RATE
	default:
		return 0
	}
}

// MonthlyReturn is principal times its tier rate, in cents.
func MonthlyReturn(principal float64) float64 {
	return mulRound2(principal, MonthlyRate(principal))
}

// daysInMonth is the exact calendar length of t's month (28-31).
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// DailyReturn apportions the monthly return over the actual days of t's
// month, so a full month of daily credits sums back to the monthly figure
// within rounding.
func DailyReturn(principal float64, t time.Time) float64 {
	monthly := MonthlyReturn(principal)
	if monthly <= 0 {
		return 0
	}
	return divRound2(monthly, daysInMonth(t))
}

// dateOf truncates to a UTC calendar day.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Run credits the daily return to every invested member not yet credited
// today, then cascades referral income off each credit. One member failing
// never stops the batch.
func (s *RoiService) Run(ctx context.Context) (*DailyReturnResult, error) {
	now := s.clock.Now()
	today := dateOf(now)
	res := &DailyReturnResult{Date: today.Format("2006-01-02")}

	investors, err := s.members.ListInvestors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list investors: %w", err)
	}

	for _, m := range investors {
		daily := DailyReturn(m.Principal(), now)
		if daily <= 0 {
			res.Skipped++
			continue
		}

		claimed := false
		meta := model.TxMeta{
			InvestedAmount: m.Principal(),
			Rate:           MonthlyRate(m.Principal()),
			Period:         res.Date,
			Note:           "daily staking return",
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ok, err := s.members.ClaimDailyReturnTx(tx, m.ID, today)
			if err != nil {
				return err
			}
			if !ok {
				return nil // already credited today
			}
			claimed = true
			_, err = s.wallet.CreditTx(tx, m.ID, model.WalletMain, daily, model.TxReturnCredit, meta)
			return err
		})
		if err != nil {
			res.Failed++
			s.log.Error("daily return failed", zap.Uint64("member", m.ID), zap.Error(err))
			continue
		}
		if !claimed {
			res.Skipped++
			continue
		}
		res.Processed++
		res.TotalCredited = round2(res.TotalCredited + daily)

		// The investor's credit is already committed; a referral failure is
		// a partial-success state that must stay visible, not a rollback.
		for _, out := range s.referral.Distribute(ctx, m, daily) {
			if out.Err != nil {
				res.ReferralFailures++
				s.log.Error("referral income failed",
					zap.Uint64("source", m.ID),
					zap.Uint64("upline", out.MemberID),
					zap.Int("level", out.Level),
					zap.Error(out.Err))
			}
		}
	}

	run := &model.JobRun{
		Job:         model.JobDailyReturns,
		RunDate:     today,
		Processed:   res.Processed,
		Skipped:     res.Skipped,
		Failed:      res.Failed,
		TotalAmount: res.TotalCredited,
	}
	if err := s.jobRuns.Create(run); err != nil {
		s.log.Error("record job run", zap.Error(err))
	}
	return res, nil
}
