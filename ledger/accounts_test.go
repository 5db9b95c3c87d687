package ledger

import (
	"math"
	"testing"

	"mealmatch/methods"
	"mealmatch/models"

	"github.com/stretchr/testify/require"
)

func addDefaultPayout(t *testing.T, f *fixture) models.PayoutMethod {
	t.Helper()
	m, err := f.payouts.Add(f.owner, methods.PayoutMethodInput{
		Type:          "bank_account",
		AccountNumber: "1234567890",
		Holder:        "Kenji",
	})
	require.NoError(t, err)
	require.True(t, m.IsDefault)
	return *m
}

func TestCreditOwner(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.CreditOwner(f.owner, 500, 7))
	require.Equal(t, 500.0, f.svc.Balance(f.owner))
	acct := f.svc.Account(f.owner)
	require.Len(t, acct.Transactions, 1)
	require.Equal(t, models.TxPaymentReceived, acct.Transactions[0].Type)
	require.EqualValues(t, 7, acct.Transactions[0].OrderID)

	require.ErrorIs(t, f.svc.CreditOwner(f.owner, 0, 8), ErrInvalidAmount)
	require.ErrorIs(t, f.svc.CreditOwner(f.owner, -10, 8), ErrInvalidAmount)
	require.ErrorIs(t, f.svc.CreditOwner("", 10, 8), ErrInvalidAmount)
}

func TestWithdrawBoundaries(t *testing.T) {
	t.Run("exact balance drains to zero", func(t *testing.T) {
		f := newFixture(t)
		payout := addDefaultPayout(t, f)
		require.NoError(t, f.svc.CreditOwner(f.owner, 2000, 1))

		txn, err := f.svc.Withdraw(f.owner, 2000)
		require.NoError(t, err)
		require.Equal(t, 0.0, f.svc.Balance(f.owner))
		require.Equal(t, models.TxWithdrawal, txn.Type)
		require.Equal(t, 2000.0, txn.Amount)
		require.Equal(t, models.WithdrawalPending, txn.Status)
		require.Equal(t, payout.ID, txn.PayoutMethodID)
	})

	t.Run("one cent over is rejected, not clamped", func(t *testing.T) {
		f := newFixture(t)
		addDefaultPayout(t, f)
		require.NoError(t, f.svc.CreditOwner(f.owner, 2000, 1))

		_, err := f.svc.Withdraw(f.owner, 2000.01)
		require.ErrorIs(t, err, ErrExceedsBalance)
		require.Equal(t, 2000.0, f.svc.Balance(f.owner))
		require.Len(t, f.svc.Account(f.owner).Transactions, 1)
	})

	t.Run("no payout method rejected regardless of balance", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.CreditOwner(f.owner, 5000, 1))

		_, err := f.svc.Withdraw(f.owner, 100)
		require.ErrorIs(t, err, ErrNoPayoutMethod)
		require.Equal(t, 5000.0, f.svc.Balance(f.owner))
	})

	t.Run("empty account has no funds", func(t *testing.T) {
		f := newFixture(t)
		addDefaultPayout(t, f)
		_, err := f.svc.Withdraw(f.owner, 100)
		require.ErrorIs(t, err, ErrNoFunds)
	})

	t.Run("invalid amounts", func(t *testing.T) {
		f := newFixture(t)
		addDefaultPayout(t, f)
		require.NoError(t, f.svc.CreditOwner(f.owner, 1000, 1))

		for _, amount := range []float64{0, -50, math.NaN()} {
			_, err := f.svc.Withdraw(f.owner, amount)
			require.ErrorIs(t, err, ErrInvalidAmount)
		}
		require.Equal(t, 1000.0, f.svc.Balance(f.owner))
	})
}

// The stored balance must always equal the running sum of signed transaction
// amounts: credits positive, withdrawals negative.
func TestBalanceMatchesTransactionLog(t *testing.T) {
	f := newFixture(t)
	addDefaultPayout(t, f)

	require.NoError(t, f.svc.CreditOwner(f.owner, 1200, 1))
	require.NoError(t, f.svc.CreditOwner(f.owner, 800, 2))
	_, err := f.svc.Withdraw(f.owner, 500)
	require.NoError(t, err)
	require.NoError(t, f.svc.CreditOwner(f.owner, 300, 3))

	acct := f.svc.Account(f.owner)
	sum := 0.0
	for _, txn := range acct.Transactions {
		sum += txn.Signed()
	}
	require.Equal(t, sum, acct.Balance)
	require.Equal(t, 1800.0, acct.Balance)
}
