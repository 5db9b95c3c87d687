package ledger

import "mealmatch/models"

// EffectiveSavings is the single savings formula used everywhere savings are
// displayed or aggregated. An item annotated with an explicit savings value
// keeps it; otherwise the discount is derived from the old price. Re-deriving
// savings from an already-annotated order yields the same number.
func EffectiveSavings(item models.OrderItem) float64 {
	if item.Savings != nil {
		return *item.Savings
	}
	if item.OldPrice > item.Price {
		return (item.OldPrice - item.Price) * float64(quantityOf(item))
	}
	return 0
}

// quantityOf applies the checkout default: a missing quantity counts as one.
func quantityOf(item models.OrderItem) int {
	if item.Quantity <= 0 {
		return 1
	}
	return item.Quantity
}
