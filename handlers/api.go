package handlers

import (
	"errors"
	"net/http"

	"mealmatch/catalog"
	"mealmatch/identity"
	"mealmatch/ledger"
	"mealmatch/methods"

	"github.com/gin-gonic/gin"
)

// API bundles the injected services behind the HTTP surface. Handlers hold
// no business logic of their own; every rule lives in the service packages.
type API struct {
	Identity *identity.Service
	Catalog  *catalog.Service
	Ledger   *ledger.Service
	Payments *methods.PaymentRegistry
	Payouts  *methods.PayoutRegistry
}

// fail maps service rejections onto HTTP statuses. Rejections arrive as
// sentinel errors, never panics.
func fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ledger.ErrOrderNotFound),
		errors.Is(err, catalog.ErrRestaurantNotFound),
		errors.Is(err, catalog.ErrMenuItemNotFound),
		errors.Is(err, methods.ErrMethodNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrNotOwned),
		errors.Is(err, catalog.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrInvalidTransition),
		errors.Is(err, ledger.ErrNotEditable),
		errors.Is(err, ledger.ErrNoFunds),
		errors.Is(err, ledger.ErrNoPayoutMethod),
		errors.Is(err, ledger.ErrExceedsBalance):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, identity.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, identity.ErrBadCredentials),
		errors.Is(err, ledger.ErrNoSession):
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
