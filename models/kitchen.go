package models

import "time"

// KitchenStatus is the admin approval state of a kitchen.
type KitchenStatus string

const (
	KitchenPending   KitchenStatus = "pending"
	KitchenApproved  KitchenStatus = "approved"
	KitchenRejected  KitchenStatus = "rejected"
	KitchenSuspended KitchenStatus = "suspended"
)

// TimeWindow is one daily operating window, "HH:MM" 24h clock.
type TimeWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type Kitchen struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	SellerID    uint   `json:"seller_id" gorm:"not null;index"`
	Seller      User   `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
	Address     string `json:"address" gorm:"not null"`
	Phone       string `json:"phone"`
	PictureURL  string `json:"picture_url"`
	Category    string `json:"category"`

	// Operating hours, three windows per day.
	Morning   TimeWindow `json:"morning_hours" gorm:"embedded;embeddedPrefix:morning_"`
	Afternoon TimeWindow `json:"afternoon_hours" gorm:"embedded;embeddedPrefix:afternoon_"`
	Evening   TimeWindow `json:"evening_hours" gorm:"embedded;embeddedPrefix:evening_"`

	Status  KitchenStatus `json:"status" gorm:"not null;default:'pending'"`
	Remarks string        `json:"remarks"`
	// IsActive mirrors Status == approved; only active kitchens are browsable.
	IsActive bool `json:"is_active" gorm:"default:false"`
	// IsOpen is the seller-controlled open/closed flag, meaningful only
	// while the kitchen is approved.
	IsOpen bool `json:"is_open" gorm:"default:false"`

	Rating      float64 `json:"rating" gorm:"default:0"`
	RatingCount int     `json:"rating_count" gorm:"default:0"`

	MenuItems []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:KitchenID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	KitchenID   uint    `json:"kitchen_id" gorm:"not null;index"`
	SellerID    uint    `json:"seller_id" gorm:"not null;index"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"not null"`
	Category    string  `json:"category"`
	IsVeg       bool    `json:"is_veg" gorm:"default:false"`
	IsAvailable bool    `json:"is_available" gorm:"default:true"`
	PictureURL  string  `json:"picture_url"`

	Rating      float64 `json:"rating" gorm:"default:0"`
	RatingCount int     `json:"rating_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
