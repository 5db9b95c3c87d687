package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID               int64              `json:"id"` // persisted monotonic counter, never reused
	UserID           string             `json:"user_id"`
	Status           OrderStatus        `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
	Items            []OrderItem        `json:"items"`
	Address          string             `json:"address"`
	EstimatedMinutes int                `json:"estimated_delivery_time,omitempty"`
	DeliveryTime     *time.Time         `json:"delivery_time,omitempty"`
	TotalSavings     float64            `json:"total_savings"`
	TotalAmount      float64            `json:"total_amount"`
	OwnerPayments    map[string]float64 `json:"owner_payments"`
	PaymentMethodID  string             `json:"payment_method_id,omitempty"`
}

// OrderItem is a snapshot captured at order time — later catalog edits must
// not retroactively change historical orders.
type OrderItem struct {
	MenuItemID   string   `json:"menu_item_id"`
	RestaurantID string   `json:"restaurant_id,omitempty"`
	Name         string   `json:"name"`
	Quantity     int      `json:"quantity"`
	Price        float64  `json:"price"`
	OldPrice     float64  `json:"old_price,omitempty"`
	Savings      *float64 `json:"savings,omitempty"` // explicit per-line override
}
