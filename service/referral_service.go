package service

import (
	"context"

	"github.com/affiliate_network/model"
	"go.uber.org/zap"
)

// Percentage-of-return schedules by sponsor-chain depth. The default walk
// covers three levels; configuration may select the extended five-level
// schedule instead.
var (
	DefaultReferralRates  = []float64{0.20, 0.10, 0.05}
	ExtendedReferralRates = []float64{0.20, 0.10, 0.05, 0.03, 0.02}
)

// ReferralOutcome reports one upline's share of a residual distribution.
type ReferralOutcome struct {
	Level    int     `json:"level"`
	MemberID uint64  `json:"member_id"`
	Amount   float64 `json:"amount"`
	Err      error   `json:"-"`
}

// ReferralService pays uplines a percentage of a downline's daily return.
// Unlike generation commission there is no unlock condition: every sponsor
// in range is paid.
type ReferralService struct {
	network *NetworkService
	wallet  *WalletService
	rates   []float64
	log     *zap.Logger
}

func NewReferralService(network *NetworkService, wallet *WalletService, rates []float64, log *zap.Logger) *ReferralService {
	if len(rates) == 0 {
		rates = DefaultReferralRates
	}
	return &ReferralService{network: network, wallet: wallet, rates: rates, log: log}
}

// Distribute walks source's sponsor chain and credits each upline its
// level's percentage of baseAmount. A failed credit is reported in that
// upline's outcome and the walk continues.
func (s *ReferralService) Distribute(ctx context.Context, source *model.Member, baseAmount float64) []ReferralOutcome {
	chain := s.network.UplineChain(source.ID, len(s.rates))
	outcomes := make([]ReferralOutcome, 0, len(chain))
	for _, up := range chain {
		amount := mulRound2(baseAmount, s.rates[up.Level-1])
		out := ReferralOutcome{Level: up.Level, MemberID: up.Member.ID, Amount: amount}
		if amount <= 0 {
			outcomes = append(outcomes, out)
			continue
		}
		meta := model.TxMeta{Level: up.Level, SourceMemberID: source.ID}
		if _, err := s.wallet.Credit(ctx, up.Member.ID, model.WalletMain, amount, model.TxResidualReferral, meta); err != nil {
			out.Err = err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}
