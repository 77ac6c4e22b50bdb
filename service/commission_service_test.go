package service

import (
	"context"
	"testing"

	"github.com/affiliate_network/model"
	"github.com/stretchr/testify/require"
)

func TestGenerationCommissionTwoUnlockedLevels(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	up2 := e.seed(t, &model.Member{Name: "up2", LeftDirects: 1, RightDirects: 1})
	up1 := e.seed(t, &model.Member{Name: "up1", SponsorID: &up2.ID, LeftDirects: 1})
	src := e.seed(t, &model.Member{Name: "src", SponsorID: &up1.ID})

	outcomes := e.commission.Distribute(ctx, src, DefaultActivationSchedule)
	require.Len(t, outcomes, 2)
	require.False(t, outcomes[0].Skipped)
	require.False(t, outcomes[1].Skipped)
	require.Equal(t, 5.00, outcomes[0].Amount)
	require.Equal(t, 2.00, outcomes[1].Amount)

	require.Equal(t, 5.00, e.reload(t, up1.ID).MainWallet)
	require.Equal(t, 2.00, e.reload(t, up2.ID).MainWallet)

	// exactly one generation-commission entry each, referencing the source
	for i, up := range []uint64{up1.ID, up2.ID} {
		list, total, err := e.transactions.ListByMember(ctx, up, 1, 10)
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		require.Equal(t, model.TxGenerationCommission, list[0].Kind)
		require.Equal(t, i+1, list[0].Meta.Level)
		require.Equal(t, src.ID, list[0].Meta.SourceMemberID)
	}
}

func TestLockedUplineIsSkippedEntirely(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	// up2 has unlocked level 2, up1 has no directs at all
	up2 := e.seed(t, &model.Member{Name: "up2", LeftDirects: 2})
	up1 := e.seed(t, &model.Member{Name: "up1", SponsorID: &up2.ID})
	src := e.seed(t, &model.Member{Name: "src", SponsorID: &up1.ID})

	outcomes := e.commission.Distribute(ctx, src, DefaultActivationSchedule)
	require.Len(t, outcomes, 2)

	require.True(t, outcomes[0].Skipped)
	require.Equal(t, 0.0, outcomes[0].Amount)
	require.Equal(t, 0.0, e.reload(t, up1.ID).MainWallet)

	// the skip does not stop the walk: level 2 is still evaluated and paid
	require.False(t, outcomes[1].Skipped)
	require.Equal(t, 2.00, e.reload(t, up2.ID).MainWallet)
}

func TestUnlockComparesDirectsAgainstLevel(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	// one direct unlocks level 1 but not level 2
	up := e.seed(t, &model.Member{Name: "up", RightDirects: 1})
	mid := e.seed(t, &model.Member{Name: "mid", SponsorID: &up.ID, LeftDirects: 1})
	src := e.seed(t, &model.Member{Name: "src", SponsorID: &mid.ID})

	outcomes := e.commission.Distribute(ctx, src, DefaultActivationSchedule)
	require.Len(t, outcomes, 2)
	require.False(t, outcomes[0].Skipped) // mid at level 1, 1 direct
	require.True(t, outcomes[1].Skipped)  // up at level 2, only 1 direct
	require.Equal(t, 0.0, e.reload(t, up.ID).MainWallet)
}

func TestFailedCreditDoesNotStopChain(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	up2 := e.seed(t, &model.Member{Name: "up2", LeftDirects: 1, RightDirects: 1})
	up1 := e.seed(t, &model.Member{Name: "up1", SponsorID: &up2.ID, LeftDirects: 1})
	src := e.seed(t, &model.Member{Name: "src", SponsorID: &up1.ID})

	e.blockLedger(t, up1.ID)

	outcomes := e.commission.Distribute(ctx, src, DefaultActivationSchedule)
	require.Len(t, outcomes, 2)

	// level 1 failed and its credit rolled back with the ledger append
	require.Error(t, outcomes[0].Err)
	require.False(t, outcomes[0].Skipped)
	require.Equal(t, 0.0, e.reload(t, up1.ID).MainWallet)
	require.Equal(t, 0.0, e.reload(t, up1.ID).TotalEarnings)

	// level 2 was still evaluated and paid in full
	require.NoError(t, outcomes[1].Err)
	require.Equal(t, 2.00, e.reload(t, up2.ID).MainWallet)

	n, err := e.transactions.CountByMemberAndKind(ctx, up2.ID, model.TxGenerationCommission)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestPackageScheduleAmounts(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	up := e.seed(t, &model.Member{Name: "up", LeftDirects: 3})
	src := e.seed(t, &model.Member{Name: "src", SponsorID: &up.ID})

	outcomes := e.commission.Distribute(ctx, src, DefaultPackageSchedule)
	require.Len(t, outcomes, 1)
	require.Equal(t, 25.00, outcomes[0].Amount)
	require.Equal(t, 25.00, e.reload(t, up.ID).MainWallet)
}
