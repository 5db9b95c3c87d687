// Package methods manages the per-user payment-method and payout-method
// lists. Invariant on every mutating write: at most one entry per user is the
// default, and a non-empty list keeps exactly one default unless the caller
// deletes it without re-assigning — the one tolerated defaultless state.
package methods

import (
	"errors"
	"strings"
	"time"

	"mealmatch/models"
	"mealmatch/store"

	"github.com/google/uuid"
)

var (
	ErrMethodNotFound = errors.New("method not found")
	ErrNumberRequired = errors.New("number required")
)

// ── Payment methods (customer) ──────────────────────────────────────────────

type PaymentRegistry struct {
	kv store.Store
}

func NewPaymentRegistry(kv store.Store) *PaymentRegistry {
	return &PaymentRegistry{kv: kv}
}

func (r *PaymentRegistry) List(userID string) []models.PaymentMethod {
	all := map[string][]models.PaymentMethod{}
	r.kv.Get(store.KeyPaymentMethods, &all)
	return all[userID]
}

func (r *PaymentRegistry) Default(userID string) (models.PaymentMethod, bool) {
	for _, m := range r.List(userID) {
		if m.IsDefault {
			return m, true
		}
	}
	return models.PaymentMethod{}, false
}

type PaymentMethodInput struct {
	Brand       string
	Number      string
	Holder      string
	Expiry      string
	MakeDefault bool
}

func (r *PaymentRegistry) Add(userID string, in PaymentMethodInput) (*models.PaymentMethod, error) {
	if strings.TrimSpace(in.Number) == "" {
		return nil, ErrNumberRequired
	}
	m := models.PaymentMethod{
		ID:        uuid.NewString(),
		Brand:     in.Brand,
		Number:    strings.TrimSpace(in.Number),
		Holder:    in.Holder,
		Expiry:    in.Expiry,
		CreatedAt: time.Now().UTC(),
	}
	err := r.kv.Update(func(tx store.Store) error {
		all := map[string][]models.PaymentMethod{}
		tx.Get(store.KeyPaymentMethods, &all)
		list := all[userID]
		// first entry always becomes the default
		m.IsDefault = in.MakeDefault || len(list) == 0
		if m.IsDefault {
			for i := range list {
				list[i].IsDefault = false
			}
		}
		all[userID] = append(list, m)
		return tx.Put(store.KeyPaymentMethods, all)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PaymentRegistry) Update(userID, id string, in PaymentMethodInput) (*models.PaymentMethod, error) {
	var updated models.PaymentMethod
	err := r.kv.Update(func(tx store.Store) error {
		all := map[string][]models.PaymentMethod{}
		tx.Get(store.KeyPaymentMethods, &all)
		list := all[userID]
		for i := range list {
			if list[i].ID != id {
				continue
			}
			if in.Brand != "" {
				list[i].Brand = in.Brand
			}
			if strings.TrimSpace(in.Number) != "" {
				list[i].Number = strings.TrimSpace(in.Number)
			}
			if in.Holder != "" {
				list[i].Holder = in.Holder
			}
			if in.Expiry != "" {
				list[i].Expiry = in.Expiry
			}
			if in.MakeDefault {
				for j := range list {
					list[j].IsDefault = false
				}
				list[i].IsDefault = true
			}
			updated = list[i]
			all[userID] = list
			return tx.Put(store.KeyPaymentMethods, all)
		}
		return ErrMethodNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the entry. Deleting the current default leaves the list
// with no default; the caller re-assigns one explicitly if wanted.
func (r *PaymentRegistry) Delete(userID, id string) error {
	return r.kv.Update(func(tx store.Store) error {
		all := map[string][]models.PaymentMethod{}
		tx.Get(store.KeyPaymentMethods, &all)
		list := all[userID]
		for i := range list {
			if list[i].ID == id {
				all[userID] = append(list[:i], list[i+1:]...)
				return tx.Put(store.KeyPaymentMethods, all)
			}
		}
		return ErrMethodNotFound
	})
}

// SetDefault clears is_default on every other entry before setting the
// target.
func (r *PaymentRegistry) SetDefault(userID, id string) error {
	return r.kv.Update(func(tx store.Store) error {
		all := map[string][]models.PaymentMethod{}
		tx.Get(store.KeyPaymentMethods, &all)
		list := all[userID]
		found := false
		for i := range list {
			list[i].IsDefault = false
			if list[i].ID == id {
				found = true
			}
		}
		if !found {
			return ErrMethodNotFound
		}
		for i := range list {
			if list[i].ID == id {
				list[i].IsDefault = true
			}
		}
		all[userID] = list
		return tx.Put(store.KeyPaymentMethods, all)
	})
}

// ── Payout methods (owner) ──────────────────────────────────────────────────

type PayoutRegistry struct {
	kv store.Store
}

func NewPayoutRegistry(kv store.Store) *PayoutRegistry {
	return &PayoutRegistry{kv: kv}
}

func (r *PayoutRegistry) List(ownerID string) []models.PayoutMethod {
	all := map[string][]models.PayoutMethod{}
	r.kv.Get(store.KeyPayoutMethods, &all)
	return all[ownerID]
}

func (r *PayoutRegistry) Default(ownerID string) (models.PayoutMethod, bool) {
	for _, m := range r.List(ownerID) {
		if m.IsDefault {
			return m, true
		}
	}
	return models.PayoutMethod{}, false
}

type PayoutMethodInput struct {
	Type          string
	AccountNumber string
	Holder        string
	MakeDefault   bool
}

func (r *PayoutRegistry) Add(ownerID string, in PayoutMethodInput) (*models.PayoutMethod, error) {
	if strings.TrimSpace(in.AccountNumber) == "" {
		return nil, ErrNumberRequired
	}
	m := models.PayoutMethod{
		ID:            uuid.NewString(),
		Type:          in.Type,
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		Holder:        in.Holder,
		CreatedAt:     time.Now().UTC(),
	}
	err := r.kv.Update(func(tx store.Store) error {
		all := map[string][]models.PayoutMethod{}
		tx.Get(store.KeyPayoutMethods, &all)
		list := all[ownerID]
		m.IsDefault = in.MakeDefault || len(list) == 0
		if m.IsDefault {
			for i := range list {
				list[i].IsDefault = false
			}
		}
		all[ownerID] = append(list, m)
		return tx.Put(store.KeyPayoutMethods, all)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PayoutRegistry) Update(ownerID, id string, in PayoutMethodInput) (*models.PayoutMethod, error) {
	var updated models.PayoutMethod
	err := r.kv.Update(func(tx store.Store) error {
		all := map[string][]models.PayoutMethod{}
		tx.Get(store.KeyPayoutMethods, &all)
		list := all[ownerID]
		for i := range list {
			if list[i].ID != id {
				continue
			}
			if in.Type != "" {
				list[i].Type = in.Type
			}
			if strings.TrimSpace(in.AccountNumber) != "" {
				list[i].AccountNumber = strings.TrimSpace(in.AccountNumber)
			}
			if in.Holder != "" {
				list[i].Holder = in.Holder
			}
			if in.MakeDefault {
				for j := range list {
					list[j].IsDefault = false
				}
				list[i].IsDefault = true
			}
			updated = list[i]
			all[ownerID] = list
			return tx.Put(store.KeyPayoutMethods, all)
		}
		return ErrMethodNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PayoutRegistry) Delete(ownerID, id string) error {
	return r.kv.Update(func(tx store.Store) error {
		all := map[string][]models.PayoutMethod{}
		tx.Get(store.KeyPayoutMethods, &all)
		list := all[ownerID]
		for i := range list {
			if list[i].ID == id {
				all[ownerID] = append(list[:i], list[i+1:]...)
				return tx.Put(store.KeyPayoutMethods, all)
			}
		}
		return ErrMethodNotFound
	})
}

func (r *PayoutRegistry) SetDefault(ownerID, id string) error {
	return r.kv.Update(func(tx store.Store) error {
		all := map[string][]models.PayoutMethod{}
		tx.Get(store.KeyPayoutMethods, &all)
		list := all[ownerID]
		found := false
		for i := range list {
			list[i].IsDefault = false
			if list[i].ID == id {
				found = true
			}
		}
		if !found {
			return ErrMethodNotFound
		}
		for i := range list {
			if list[i].ID == id {
				list[i].IsDefault = true
			}
		}
		all[ownerID] = list
		return tx.Put(store.KeyPayoutMethods, all)
	})
}
