package methods

import (
	"testing"

	"mealmatch/models"
	"mealmatch/store"

	"github.com/stretchr/testify/require"
)

func countDefaults[T any](list []T, isDefault func(T) bool) int {
	n := 0
	for _, m := range list {
		if isDefault(m) {
			n++
		}
	}
	return n
}

func paymentDefaults(list []models.PaymentMethod) int {
	return countDefaults(list, func(m models.PaymentMethod) bool { return m.IsDefault })
}

func TestPaymentRegistrySingleDefault(t *testing.T) {
	r := NewPaymentRegistry(store.NewMemStore())
	const user = "cust-1"

	a, err := r.Add(user, PaymentMethodInput{Brand: "visa", Number: "4242424242424242"})
	require.NoError(t, err)
	require.True(t, a.IsDefault, "first entry becomes the default")

	b, err := r.Add(user, PaymentMethodInput{Brand: "mastercard", Number: "5555555555554444"})
	require.NoError(t, err)
	require.False(t, b.IsDefault)
	require.Equal(t, 1, paymentDefaults(r.List(user)))

	c, err := r.Add(user, PaymentMethodInput{Brand: "jcb", Number: "3566002020360505", MakeDefault: true})
	require.NoError(t, err)
	require.True(t, c.IsDefault)
	require.Equal(t, 1, paymentDefaults(r.List(user)))

	require.NoError(t, r.SetDefault(user, b.ID))
	require.Equal(t, 1, paymentDefaults(r.List(user)))
	got, ok := r.Default(user)
	require.True(t, ok)
	require.Equal(t, b.ID, got.ID)

	_, err = r.Update(user, a.ID, PaymentMethodInput{MakeDefault: true})
	require.NoError(t, err)
	require.Equal(t, 1, paymentDefaults(r.List(user)))
	got, _ = r.Default(user)
	require.Equal(t, a.ID, got.ID)
}

func TestPaymentRegistryDeleteDefault(t *testing.T) {
	r := NewPaymentRegistry(store.NewMemStore())
	const user = "cust-1"

	a, _ := r.Add(user, PaymentMethodInput{Number: "4242424242424242"})
	b, _ := r.Add(user, PaymentMethodInput{Number: "5555555555554444"})

	// deleting the default leaves the list with no default at all
	require.NoError(t, r.Delete(user, a.ID))
	require.Len(t, r.List(user), 1)
	_, ok := r.Default(user)
	require.False(t, ok)

	// deleting the last entry yields an empty, defaultless list
	require.NoError(t, r.Delete(user, b.ID))
	require.Empty(t, r.List(user))
}

func TestPaymentRegistryErrors(t *testing.T) {
	r := NewPaymentRegistry(store.NewMemStore())
	const user = "cust-1"

	_, err := r.Add(user, PaymentMethodInput{Number: "  "})
	require.ErrorIs(t, err, ErrNumberRequired)

	require.ErrorIs(t, r.SetDefault(user, "missing"), ErrMethodNotFound)
	require.ErrorIs(t, r.Delete(user, "missing"), ErrMethodNotFound)
	_, err = r.Update(user, "missing", PaymentMethodInput{Brand: "visa"})
	require.ErrorIs(t, err, ErrMethodNotFound)
}

func TestPaymentRegistryScopedPerUser(t *testing.T) {
	r := NewPaymentRegistry(store.NewMemStore())

	a, _ := r.Add("cust-1", PaymentMethodInput{Number: "4242424242424242"})
	b, _ := r.Add("cust-2", PaymentMethodInput{Number: "5555555555554444"})

	require.Len(t, r.List("cust-1"), 1)
	require.Len(t, r.List("cust-2"), 1)
	require.True(t, a.IsDefault)
	require.True(t, b.IsDefault, "each user's first entry is their own default")
	require.ErrorIs(t, r.Delete("cust-1", b.ID), ErrMethodNotFound)
}

func TestPayoutRegistry(t *testing.T) {
	r := NewPayoutRegistry(store.NewMemStore())
	const owner = "owner-1"

	a, err := r.Add(owner, PayoutMethodInput{Type: "bank_account", AccountNumber: "1234567890", Holder: "Kenji"})
	require.NoError(t, err)
	require.True(t, a.IsDefault)

	b, err := r.Add(owner, PayoutMethodInput{Type: "bank_account", AccountNumber: "0987654321", MakeDefault: true})
	require.NoError(t, err)
	require.True(t, b.IsDefault)

	list := r.List(owner)
	require.Equal(t, 1, countDefaults(list, func(m models.PayoutMethod) bool { return m.IsDefault }))

	got, ok := r.Default(owner)
	require.True(t, ok)
	require.Equal(t, b.ID, got.ID)

	require.NoError(t, r.Delete(owner, b.ID))
	_, ok = r.Default(owner)
	require.False(t, ok, "no default after deleting it")

	require.NoError(t, r.SetDefault(owner, a.ID))
	got, ok = r.Default(owner)
	require.True(t, ok)
	require.Equal(t, a.ID, got.ID)
}

// Numbers must survive the JSON persistence round trip in full; masking is a
// display concern applied on read-back entries.
func TestNumbersSurviveStoreAndMask(t *testing.T) {
	kv := store.NewMemStore()

	payments := NewPaymentRegistry(kv)
	_, err := payments.Add("cust-1", PaymentMethodInput{Brand: "visa", Number: "4242424242424242"})
	require.NoError(t, err)
	stored := payments.List("cust-1")
	require.Len(t, stored, 1)
	require.Equal(t, "4242424242424242", stored[0].Number)
	require.Equal(t, "•••• 4242", stored[0].MaskedNumber())

	payouts := NewPayoutRegistry(kv)
	_, err = payouts.Add("owner-1", PayoutMethodInput{Type: "bank_account", AccountNumber: "1234567890"})
	require.NoError(t, err)
	got, ok := payouts.Default("owner-1")
	require.True(t, ok)
	require.Equal(t, "1234567890", got.AccountNumber)
	require.Equal(t, "•••• 7890", got.MaskedNumber())

	require.Equal(t, "1234", models.MaskNumber("1234"), "short numbers have nothing to hide")
}
