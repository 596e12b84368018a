package models

import "time"

// OrderStatus represents all possible states of a tiffin order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	OrderNumber string      `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerID  uint        `json:"customer_id" gorm:"not null;index"`
	Customer    User        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	SellerID    uint        `json:"seller_id" gorm:"not null;index"`
	KitchenID   uint        `json:"kitchen_id" gorm:"not null;index"`
	Kitchen     Kitchen     `json:"kitchen,omitempty" gorm:"foreignKey:KitchenID"`
	Status      OrderStatus `json:"status" gorm:"not null;default:'pending'"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`

	DeliveryAddress string `json:"delivery_address" gorm:"not null"`
	Notes           string `json:"notes"`

	// Embedded review, set once after delivery.
	Rating        *int       `json:"rating,omitempty"`
	ReviewComment string     `json:"review_comment,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	OrderID    uint    `json:"order_id" gorm:"not null;index"`
	MenuItemID uint    `json:"menu_item_id" gorm:"not null"`
	Quantity   int     `json:"quantity" gorm:"not null"`
	Price      float64 `json:"price" gorm:"not null"` // snapshot price at time of order
	Name       string  `json:"name"`                  // snapshot name
}

// ReviewType tells whether a review targets a kitchen or a single menu item.
type ReviewType string

const (
	ReviewKitchen ReviewType = "kitchen"
	ReviewItem    ReviewType = "item"
)

// Review is one rating row per (customer, order, target, type); the unique
// index is what blocks duplicate reviews.
type Review struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	CustomerID uint       `json:"customer_id" gorm:"not null;uniqueIndex:idx_review_once"`
	OrderID    uint       `json:"order_id" gorm:"not null;uniqueIndex:idx_review_once"`
	TargetID   uint       `json:"target_id" gorm:"not null;uniqueIndex:idx_review_once"`
	Type       ReviewType `json:"type" gorm:"not null;uniqueIndex:idx_review_once"`
	KitchenID  uint       `json:"kitchen_id" gorm:"not null;index"`
	Rating     int        `json:"rating" gorm:"not null"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"created_at"`
}
