package service

import (
	"context"
	"testing"

	"github.com/affiliate_network/model"
	"github.com/stretchr/testify/require"
)

// assertConservation checks that the ledger sums back to the live balance
// for every wallet of the member.
func assertConservation(t *testing.T, e *engine, memberID uint64) {
	t.Helper()
	m := e.reload(t, memberID)
	for _, w := range []model.Wallet{model.WalletMain, model.WalletFee, model.WalletStake} {
		sum, err := e.transactions.SumByMemberAndWallet(context.Background(), memberID, w)
		require.NoError(t, err)
		require.InDelta(t, m.WalletBalance(w), sum, 0.001, "wallet %s", w)
	}
}

func TestCreditAppendsPairedLedgerEntry(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	m := e.seed(t, &model.Member{Name: "m"})

	entry, err := e.wallet.Credit(ctx, m.ID, model.WalletMain, 12.34, model.TxWalletTransfer,
		model.TxMeta{ToWallet: model.WalletMain, Note: "seed"})
	require.NoError(t, err)
	require.Equal(t, 12.34, entry.Amount)
	require.NotEmpty(t, entry.Reference)

	require.Equal(t, 12.34, e.reload(t, m.ID).MainWallet)
	assertConservation(t, e, m.ID)
}

func TestDebitRejectsOverdraw(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	m := e.seed(t, &model.Member{Name: "m", MainWallet: 5})

	_, err := e.wallet.Debit(ctx, m.ID, model.WalletMain, 10, model.TxWalletTransfer, model.TxMeta{})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// balance untouched, nothing appended
	require.Equal(t, 5.0, e.reload(t, m.ID).MainWallet)
	_, total, err := e.transactions.ListByMember(ctx, m.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
}

func TestDebitUnknownMember(t *testing.T) {
	e := newEngine(t)
	_, err := e.wallet.Debit(context.Background(), 12345, model.WalletMain, 1, model.TxWalletTransfer, model.TxMeta{})
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	e := newEngine(t)
	m := e.seed(t, &model.Member{Name: "m"})

	_, err := e.wallet.Credit(context.Background(), m.ID, model.WalletMain, 0, model.TxWalletTransfer, model.TxMeta{})
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = e.wallet.Credit(context.Background(), m.ID, model.WalletMain, -3, model.TxWalletTransfer, model.TxMeta{})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTransferBetweenOwnWallets(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	m := e.seed(t, &model.Member{Name: "m", MainWallet: 50})

	require.NoError(t, e.wallet.Transfer(ctx, m.ID, model.WalletMain, model.WalletFee, 20, "top up fee wallet"))

	got := e.reload(t, m.ID)
	require.Equal(t, 30.0, got.MainWallet)
	require.Equal(t, 20.0, got.FeeWallet)

	_, total, err := e.transactions.ListByMember(ctx, m.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total) // one debit entry, one credit entry
}

func TestTransferRollsBackOnInsufficientFunds(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	m := e.seed(t, &model.Member{Name: "m", MainWallet: 5})

	err := e.wallet.Transfer(ctx, m.ID, model.WalletMain, model.WalletFee, 20, "")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	got := e.reload(t, m.ID)
	require.Equal(t, 5.0, got.MainWallet)
	require.Equal(t, 0.0, got.FeeWallet)
}

func TestEarningKindsBumpLifetimeEarnings(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	m := e.seed(t, &model.Member{Name: "m"})

	_, err := e.wallet.Credit(ctx, m.ID, model.WalletMain, 7.50, model.TxResidualReferral,
		model.TxMeta{Level: 1, SourceMemberID: 42})
	require.NoError(t, err)
	require.Equal(t, 7.50, e.reload(t, m.ID).TotalEarnings)

	// plain transfers are not earnings
	_, err = e.wallet.Credit(ctx, m.ID, model.WalletFee, 3, model.TxWalletTransfer, model.TxMeta{})
	require.NoError(t, err)
	require.Equal(t, 7.50, e.reload(t, m.ID).TotalEarnings)
}
