// Package store provides the namespaced key-value persistence layer. Every
// collection in the system lives under one logical key holding a JSON value.
// Reads are fail-soft: a missing key or an undecodable value behaves as an
// empty collection and never surfaces an error to the caller. Writes report
// persistence failure as a value so callers can check durability.
package store

// Collection keys. One logical collection per key.
const (
	KeyUsers          = "mealmatch_users"
	KeyRestaurants    = "mealmatch_restaurants"
	KeyMenuItems      = "mealmatch_menu_items"
	KeyOrders         = "mealmatch_orders"
	KeyOrderCounter   = "mealmatch_order_counter"
	KeyOwnerAccounts  = "mealmatch_owner_accounts"
	KeyPaymentMethods = "mealmatch_payment_methods"
	KeyPayoutMethods  = "mealmatch_payout_methods"
)

type Store interface {
	// Get decodes the value at key into out and reports whether a usable
	// value was found. Missing keys and corrupt values both report false.
	Get(key string, out any) bool

	// Put serializes v and persists it at key.
	Put(key string, v any) error

	Delete(key string) error

	// Update runs fn against a transactional view of the store. All writes
	// made inside fn become visible atomically, or not at all if fn returns
	// an error. Multi-entity mutations (order creation plus owner credits)
	// must go through Update.
	Update(fn func(tx Store) error) error
}
