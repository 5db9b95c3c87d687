package ledger

import (
	"math"
	"time"

	"mealmatch/models"
	"mealmatch/store"
	"mealmatch/telem"

	"github.com/sirupsen/logrus"
)

// Account returns the owner's account; a never-credited owner reads as an
// empty account with zero balance.
func (s *Service) Account(ownerID string) models.OwnerAccount {
	accounts := map[string]models.OwnerAccount{}
	s.kv.Get(store.KeyOwnerAccounts, &accounts)
	return accounts[ownerID]
}

// Balance reads the stored balance, which is the authoritative figure. It
// is maintained incrementally, not recomputed from the transaction log.
func (s *Service) Balance(ownerID string) float64 {
	return s.Account(ownerID).Balance
}

// CreditOwner posts a payment_received transaction and raises the balance.
// Order creation posts its credits inside its own transaction; this entry
// point exists for callers that credit outside that path and must be called
// at most once per order.
func (s *Service) CreditOwner(ownerID string, amount float64, orderID int64) error {
	if ownerID == "" || math.IsNaN(amount) || amount <= 0 {
		return ErrInvalidAmount
	}
	err := s.kv.Update(func(tx store.Store) error {
		accounts := map[string]models.OwnerAccount{}
		tx.Get(store.KeyOwnerAccounts, &accounts)
		acct := accounts[ownerID]
		acct.Balance += amount
		acct.Transactions = append(acct.Transactions, models.Transaction{
			Type:    models.TxPaymentReceived,
			Amount:  amount,
			Date:    time.Now().UTC(),
			OrderID: orderID,
		})
		accounts[ownerID] = acct
		return tx.Put(store.KeyOwnerAccounts, accounts)
	})
	if err != nil {
		return err
	}
	telem.CreditsPosted.Inc()
	telem.CreditedAmount.Add(amount)
	return nil
}

// Withdraw debits the owner's balance and appends a withdrawal transaction
// referencing the default payout method. The transaction is recorded with
// status pending: payouts settle externally and no settlement confirmation
// exists in this system.
//
// Rejections are distinct values: invalid amount, no funds at all, no payout
// method configured, or amount above the balance. An over-limit request is
// rejected outright — the balance is never clamped.
func (s *Service) Withdraw(ownerID string, amount float64) (*models.Transaction, error) {
	if math.IsNaN(amount) || amount <= 0 {
		telem.WithdrawalsRejected.WithLabelValues("invalid_amount").Inc()
		return nil, ErrInvalidAmount
	}

	payout, hasPayout := models.PayoutMethod{}, false
	if s.payouts != nil {
		payout, hasPayout = s.payouts.Default(ownerID)
	}

	var txn models.Transaction
	err := s.kv.Update(func(tx store.Store) error {
		accounts := map[string]models.OwnerAccount{}
		tx.Get(store.KeyOwnerAccounts, &accounts)
		acct := accounts[ownerID]
		if acct.Balance <= 0 {
			return ErrNoFunds
		}
		if !hasPayout {
			return ErrNoPayoutMethod
		}
		if amount > acct.Balance {
			return ErrExceedsBalance
		}
		acct.Balance -= amount
		txn = models.Transaction{
			Type:           models.TxWithdrawal,
			Amount:         amount,
			Date:           time.Now().UTC(),
			PayoutMethodID: payout.ID,
			Status:         models.WithdrawalPending,
		}
		acct.Transactions = append(acct.Transactions, txn)
		accounts[ownerID] = acct
		return tx.Put(store.KeyOwnerAccounts, accounts)
	})
	if err != nil {
		switch err {
		case ErrNoFunds:
			telem.WithdrawalsRejected.WithLabelValues("no_funds").Inc()
		case ErrNoPayoutMethod:
			telem.WithdrawalsRejected.WithLabelValues("no_payout_method").Inc()
		case ErrExceedsBalance:
			telem.WithdrawalsRejected.WithLabelValues("exceeds_balance").Inc()
		}
		return nil, err
	}

	telem.WithdrawalsRequested.Inc()
	logrus.WithFields(logrus.Fields{
		"owner_id":         ownerID,
		"amount":           amount,
		"payout_method_id": payout.ID,
	}).Info("withdrawal requested")
	return &txn, nil
}
