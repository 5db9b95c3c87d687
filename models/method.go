package models

import "time"

// PaymentMethod is customer-scoped. Numbers persist in full through the JSON
// key-value store and are masked at the handler layer for display;
// tokenization is a noted requirement for any real gateway integration,
// which is out of scope here.
type PaymentMethod struct {
	ID        string    `json:"id"`
	Brand     string    `json:"brand,omitempty"`
	Number    string    `json:"number"`
	Holder    string    `json:"holder,omitempty"`
	Expiry    string    `json:"expiry,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// PayoutMethod is owner-scoped and is the target of withdrawal requests.
// AccountNumber persists in full like PaymentMethod.Number.
type PayoutMethod struct {
	ID            string    `json:"id"`
	Type          string    `json:"type,omitempty"` // e.g. bank_account
	AccountNumber string    `json:"account_number"`
	Holder        string    `json:"holder,omitempty"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

// MaskNumber keeps the last four digits of a card or account number.
func MaskNumber(n string) string {
	if len(n) <= 4 {
		return n
	}
	return "•••• " + n[len(n)-4:]
}

func (m PaymentMethod) MaskedNumber() string { return MaskNumber(m.Number) }

func (m PayoutMethod) MaskedNumber() string { return MaskNumber(m.AccountNumber) }
