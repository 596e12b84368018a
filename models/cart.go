package models

import "time"

// Cart is the single per-customer cart; line items snapshot the menu item's
// name and price at add time. Total is recomputed on every save.
type Cart struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	CustomerID uint       `json:"customer_id" gorm:"uniqueIndex;not null"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Total      float64    `json:"total"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	CartID     uint    `json:"cart_id" gorm:"not null;index"`
	MenuItemID uint    `json:"menu_item_id" gorm:"not null"`
	KitchenID  uint    `json:"kitchen_id" gorm:"not null"`
	SellerID   uint    `json:"seller_id" gorm:"not null"`
	Name       string  `json:"name"`
	Price      float64 `json:"price" gorm:"not null"`
	Quantity   int     `json:"quantity" gorm:"not null"`
}
