package models

import "time"

// PlanLimits is the feature-limits struct attached to each plan.
// A value of -1 means unlimited.
type PlanLimits struct {
	MaxKitchens            int  `json:"max_kitchens"`
	MaxMenuItemsPerKitchen int  `json:"max_menu_items_per_kitchen"`
	FeaturedListing        bool `json:"featured_listing"`
	Analytics              bool `json:"analytics"`
	PrioritySupport        bool `json:"priority_support"`
}

// FreeTierLimits are applied when a seller has no active subscription.
func FreeTierLimits() PlanLimits {
	return PlanLimits{MaxKitchens: 1, MaxMenuItemsPerKitchen: 3}
}

type SubscriptionPlan struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null"`
	Description string     `json:"description"`
	Price       float64    `json:"price" gorm:"not null"`
	Limits      PlanLimits `json:"limits" gorm:"embedded;embeddedPrefix:limit_"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SubscriptionStatus is the lifecycle state of a seller's plan purchase.
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// SellerSubscription links a seller to a plan. At most one row per seller is
// active; prior actives are cancelled before a new one is activated.
type SellerSubscription struct {
	ID       uint               `json:"id" gorm:"primaryKey"`
	SellerID uint               `json:"seller_id" gorm:"not null;index"`
	PlanID   uint               `json:"plan_id" gorm:"not null"`
	Plan     SubscriptionPlan   `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
	Status   SubscriptionStatus `json:"status" gorm:"not null;default:'pending'"`

	// Payment gateway identifiers.
	Receipt          string `json:"receipt" gorm:"uniqueIndex"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`

	ActivatedAt *time.Time `json:"activated_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
