package models

import "time"

type TransactionType string

const (
	TxPaymentReceived TransactionType = "payment_received"
	TxWithdrawal      TransactionType = "withdrawal"
)

// WithdrawalPending is the only status a withdrawal ever takes: payouts
// settle externally (2-3 business days) and no confirmation path exists here.
const WithdrawalPending = "pending"

// OwnerAccount tracks a restaurant owner's earnings. The stored Balance is
// authoritative; it must always equal the running sum of signed transaction
// amounts.
type OwnerAccount struct {
	Balance      float64       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

type Transaction struct {
	Type           TransactionType `json:"type"`
	Amount         float64         `json:"amount"` // always positive, sign comes from Type
	Date           time.Time       `json:"date"`
	OrderID        int64           `json:"order_id,omitempty"`
	PayoutMethodID string          `json:"payout_method_id,omitempty"`
	Status         string          `json:"status,omitempty"`
}

// Signed returns the amount with the ledger sign convention applied:
// credits positive, withdrawals negative.
func (t Transaction) Signed() float64 {
	if t.Type == TxWithdrawal {
		return -t.Amount
	}
	return t.Amount
}
