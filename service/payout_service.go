package service

import (
	"context"
	"fmt"

	"github.com/affiliate_network/model"
	"github.com/affiliate_network/repository"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	TDS_RATE          = 0.05  // flat-rate deduction, legacy payouts only
	ENTRY_PAIR_PAYOUT = 20.00 // gross per matched pair at entry level
	MAX_ENTRY_PAYOUTS = 6     // lifetime entry payouts before promotion
	MID_STEPS         = 10
)

// Mid-level step tables, index 0 = step 1. A step is reached when both legs
// carry at least the threshold in matched pairs; it pays the gross amount
// once and advances the step counter.
var (
	midStepThresholds = []int{9, 30, 90, 300, 900, 3000, 9000, 30000, 60000, 90000}
	midStepPayouts    = []float64{50, 150, 450, 1500, 4500, 15000, 45000, 150000, 300000, 500000}
)

// PayoutCycleResult is the aggregate outcome of one leveling cycle.
type PayoutCycleResult struct {
	Processed      int     `json:"processed"`
	Failed         int     `json:"failed"`
	TotalNetAmount float64 `json:"total_net_amount"`
}

// PayoutService runs binary-pair leveling. A matched pair is the smaller of
// the two full recursive leg subtree sizes, not the direct placement counts;
// this mirrors the historical behavior and can make pairs far larger than
// direct-leg matching would.
type PayoutService struct {
	db      *gorm.DB
	members *repository.MemberRepository
	payouts *repository.PayoutRepository
	jobRuns *repository.JobRunRepository
	network *NetworkService
	clock   clockwork.Clock
	log     *zap.Logger

	tdsRate     float64
	entryPayout float64
}

func NewPayoutService(db *gorm.DB,
	members *repository.MemberRepository,
	payouts *repository.PayoutRepository,
	jobRuns *repository.JobRunRepository,
	network *NetworkService,
	clock clockwork.Clock,
	log *zap.Logger) *PayoutService {
	return &PayoutService{
		db:          db,
		members:     members,
		payouts:     payouts,
		jobRuns:     jobRuns,
		network:     network,
		clock:       clock,
		log:         log,
		tdsRate:     TDS_RATE,
		entryPayout: ENTRY_PAIR_PAYOUT,
	}
}

// MatchedPairs is min(left, right) over full recursive subtree sizes.
func (s *PayoutService) MatchedPairs(m *model.Member) (pairs, left, right int) {
	left, right = s.network.LegSizes(m)
	pairs = left
	if right < pairs {
		pairs = right
	}
	return pairs, left, right
}

// RunCycle walks every boosted active member and dispatches to the entry- or
// mid-level calculation. Per-member failures are counted and logged, never
// fatal to the cycle.
func (s *PayoutService) RunCycle(ctx context.Context) (*PayoutCycleResult, error) {
	res := &PayoutCycleResult{}
	members, err := s.members.ListBoosted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boosted members: %w", err)
	}

	for _, m := range members {
		var net float64
		var perr error
		switch m.Level {
		case model.LevelEntry:
			net, perr = s.processEntry(ctx, m)
		case model.LevelMid:
			net, perr = s.processMid(ctx, m)
		default:
			// top-level leadership payouts are settled outside this cycle
			continue
		}
		if perr != nil {
			res.Failed++
			s.log.Error("payout cycle member failed", zap.Uint64("member", m.ID), zap.Error(perr))
			continue
		}
		if net > 0 {
			res.Processed++
			res.TotalNetAmount = round2(res.TotalNetAmount + net)
		}
	}

	run := &model.JobRun{
		Job:         model.JobPayoutCycle,
		RunDate:     dateOf(s.clock.Now()),
		Processed:   res.Processed,
		Failed:      res.Failed,
		TotalAmount: res.TotalNetAmount,
	}
	if err := s.jobRuns.Create(run); err != nil {
		s.log.Error("record job run", zap.Error(err))
	}
	return res, nil
}

// processEntry pays one fixed payout per matched pair not yet consumed, up
// to the lifetime cap, then promotes to mid level with a fresh step counter.
func (s *PayoutService) processEntry(ctx context.Context, m *model.Member) (float64, error) {
	pairs, left, right := s.MatchedPairs(m)
	available := pairs - m.EntryPayoutCount
	remaining := MAX_ENTRY_PAYOUTS - m.EntryPayoutCount
	if available > remaining {
		available = remaining
	}
	if available <= 0 {
		return 0, nil
	}

	gross := s.entryPayout
	tds := mulRound2(gross, s.tdsRate)
	net := round2(gross - tds)
	totalNet := 0.0
	paid := m.EntryPayoutCount

	for i := 0; i < available; i++ {
		expected := paid
		claimed := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// guard on the counter so a concurrent cycle cannot pay the
			// same pair twice
			upd := tx.Model(&model.Member{}).
				Where("id = ? AND entry_payout_count = ?", m.ID, expected).
				UpdateColumns(map[string]interface{}{
					"main_wallet":        gorm.Expr("main_wallet + ?", net),
					"total_earnings":     gorm.Expr("total_earnings + ?", gross),
					"total_tds":          gorm.Expr("total_tds + ?", tds),
					"entry_payout_count": gorm.Expr("entry_payout_count + 1"),
				})
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return nil // another run consumed this pair
			}
			claimed = true
			return s.payouts.CreateTx(tx, &model.Payout{
				MemberID:    m.ID,
				Level:       model.LevelEntry,
				GrossAmount: gross,
				TdsAmount:   tds,
				NetAmount:   net,
				LeftPairs:   left,
				RightPairs:  right,
				CycleDate:   dateOf(s.clock.Now()),
			})
		})
		if err != nil {
			return totalNet, err
		}
		if !claimed {
			break // counter moved elsewhere, nothing was paid here
		}
		paid++
		totalNet = round2(totalNet + net)
	}

	if paid >= MAX_ENTRY_PAYOUTS {
		err := s.db.WithContext(ctx).Model(&model.Member{}).
			Where("id = ? AND level = ? AND entry_payout_count >= ?", m.ID, model.LevelEntry, MAX_ENTRY_PAYOUTS).
			UpdateColumns(map[string]interface{}{"level": model.LevelMid, "mid_step": 0}).Error
		if err != nil {
			return totalNet, err
		}
		s.log.Info("promoted to mid level", zap.Uint64("member", m.ID))
	}
	return totalNet, nil
}

// processMid pays every step whose pair threshold both legs have reached,
// advancing the step counter one step at a time. Completing the last step
// promotes to top level.
func (s *PayoutService) processMid(ctx context.Context, m *model.Member) (float64, error) {
	pairs, left, right := s.MatchedPairs(m)
	totalNet := 0.0

	for step := m.MidStep; step < MID_STEPS && pairs >= midStepThresholds[step]; step++ {
		gross := midStepPayouts[step]
		tds := mulRound2(gross, s.tdsRate)
		net := round2(gross - tds)

		claimed := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			upd := tx.Model(&model.Member{}).
				Where("id = ? AND mid_step = ?", m.ID, step).
				UpdateColumns(map[string]interface{}{
					"main_wallet":    gorm.Expr("main_wallet + ?", net),
					"total_earnings": gorm.Expr("total_earnings + ?", gross),
					"total_tds":      gorm.Expr("total_tds + ?", tds),
					"mid_step":       step + 1,
				})
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return nil // step already paid by a concurrent run
			}
			claimed = true
			return s.payouts.CreateTx(tx, &model.Payout{
				MemberID:    m.ID,
				Level:       model.LevelMid,
				Step:        step + 1,
				GrossAmount: gross,
				TdsAmount:   tds,
				NetAmount:   net,
				LeftPairs:   left,
				RightPairs:  right,
				CycleDate:   dateOf(s.clock.Now()),
			})
		})
		if err != nil {
			return totalNet, err
		}
		if !claimed {
			break // step moved elsewhere, nothing was paid here
		}
		totalNet = round2(totalNet + net)
	}

	err := s.db.WithContext(ctx).Model(&model.Member{}).
		Where("id = ? AND level = ? AND mid_step >= ?", m.ID, model.LevelMid, MID_STEPS).
		UpdateColumn("level", model.LevelTop).Error
	if err != nil {
		return totalNet, err
	}
	return totalNet, nil
}
