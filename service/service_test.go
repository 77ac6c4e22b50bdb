package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/affiliate_network/model"
	"github.com/affiliate_network/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testStart falls in a 30-day month so daily return figures are round.
var testStart = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type engine struct {
	db           *gorm.DB
	members      *repository.MemberRepository
	transactions *repository.TransactionRepository
	payouts      *repository.PayoutRepository
	jobRuns      *repository.JobRunRepository

	wallet     *WalletService
	network    *NetworkService
	referral   *ReferralService
	commission *CommissionService
	roi        *RoiService
	payout     *PayoutService
	activation *ActivationService

	clock *clockwork.FakeClock
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// per-test in-memory database to avoid cross-test interference
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()
	clock := clockwork.NewFakeClockAt(testStart)

	e := &engine{
		db:           db,
		members:      repository.NewMemberRepository(db),
		transactions: repository.NewTransactionRepository(db),
		payouts:      repository.NewPayoutRepository(db),
		jobRuns:      repository.NewJobRunRepository(db),
		clock:        clock,
	}
	e.wallet = NewWalletService(db, e.members, e.transactions, log)
	e.network = NewNetworkService(e.members)
	e.referral = NewReferralService(e.network, e.wallet, DefaultReferralRates, log)
	e.commission = NewCommissionService(e.network, e.wallet, log)
	e.roi = NewRoiService(db, e.members, e.jobRuns, e.wallet, e.referral, clock, log)
	e.payout = NewPayoutService(db, e.members, e.payouts, e.jobRuns, e.network, clock, log)
	e.activation = NewActivationService(db, e.members, e.wallet, e.commission, clock, log,
		DEFAULT_ACTIVATION_FEE, DefaultActivationSchedule)
	return e
}

func (e *engine) seed(t *testing.T, m *model.Member) *model.Member {
	t.Helper()
	if m.Level == 0 {
		m.Level = model.LevelEntry
	}
	if m.ReferralCode == "" {
		m.ReferralCode = uuid.NewString()[:8]
	}
	require.NoError(t, e.members.Create(m))
	return m
}

func (e *engine) reload(t *testing.T, id uint64) *model.Member {
	t.Helper()
	m, err := e.members.FindByID(id)
	require.NoError(t, err)
	return m
}

// buildLeg hangs a descending chain of n members under parent's left or
// right leg, giving that leg a recursive subtree size of exactly n.
func (e *engine) buildLeg(t *testing.T, parent *model.Member, leftLeg bool, n int) {
	t.Helper()
	cur := parent
	curLeft := leftLeg
	for i := 0; i < n; i++ {
		child := e.seed(t, &model.Member{Name: fmt.Sprintf("%s-leg%d", parent.Name, i)})
		if curLeft {
			cur.LeftID = &child.ID
		} else {
			cur.RightID = &child.ID
		}
		require.NoError(t, e.members.Save(cur))
		cur = child
		curLeft = true // descend along left pointers below the first hop
	}
}

// blockLedger makes every ledger append for one member fail, so the paired
// wallet credit rolls back with it. Simulates a broken store mid-chain.
func (e *engine) blockLedger(t *testing.T, memberID uint64) {
	t.Helper()
	stmt := fmt.Sprintf(`CREATE TRIGGER block_ledger_%d
BEFORE INSERT ON wallet_transactions
WHEN NEW.member_id = %d
BEGIN SELECT RAISE(ABORT, 'ledger unavailable'); END;`, memberID, memberID)
	require.NoError(t, e.db.Exec(stmt).Error)
}

func ptr(v uint64) *uint64 {
	return &v
}
