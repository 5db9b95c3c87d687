package models

import "time"

// Restaurant is owned by exactly one user with role owner. The key-value
// store holds the authoritative copy; rows are mirrored into sqlite so the
// public search endpoint can run its filters relationally.
type Restaurant struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	OwnerID    string    `json:"owner_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"not null"`
	Area       string    `json:"area,omitempty"`
	Cuisine    string    `json:"cuisine,omitempty"`
	PriceLevel string    `json:"price_level"` // ¥, ¥¥ or ¥¥¥
	Halal      bool      `json:"halal"`
	ImageURL   string    `json:"image_url,omitempty"`
	Link       string    `json:"link,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	RestaurantID string    `json:"restaurant_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Price        float64   `json:"price" gorm:"not null"`
	OldPrice     float64   `json:"old_price,omitempty"` // only meaningful when > Price
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Discounted reports whether the item carries a usable discount. An old
// price at or below the current price is treated as absent.
func (m MenuItem) Discounted() bool {
	return m.OldPrice > m.Price
}
