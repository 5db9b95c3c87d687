// Package telem exposes Prometheus metrics for the order and owner-account
// ledgers, served at /metrics.
package telem

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealmatch_orders_placed_total",
		Help: "Orders created through the order ledger.",
	})

	CreditsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealmatch_ledger_credits_total",
		Help: "payment_received transactions posted to owner accounts.",
	})

	CreditedAmount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealmatch_ledger_credited_amount_total",
		Help: "Total amount credited to owner accounts.",
	})

	UncreditedItems = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealmatch_ledger_uncredited_items_total",
		Help: "Order items that could not be attributed to any owner.",
	})

	WithdrawalsRequested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealmatch_withdrawals_requested_total",
		Help: "Withdrawal requests accepted by the owner ledger.",
	})

	WithdrawalsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealmatch_withdrawals_rejected_total",
		Help: "Withdrawal requests rejected, by reason.",
	}, []string{"reason"})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
