package limits

import (
	"fmt"

	"gorm.io/gorm"

	"tiffin-market-api/models"
)

// Unlimited is the limit value that disables a quota check.
const Unlimited = -1

// QuotaError reports that a plan limit has been reached. Handlers surface
// Current and Max so the client can prompt an upgrade.
type QuotaError struct {
	Resource string
	Current  int
	Max      int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s limit reached (%d of %d). Upgrade your subscription to add more.", e.Resource, e.Current, e.Max)
}

// Resolve returns the seller's effective plan limits: the active
// subscription's plan limits when one exists, otherwise the free tier.
func Resolve(db *gorm.DB, sellerID uint) (models.PlanLimits, error) {
	var sub models.SellerSubscription
	err := db.Preload("Plan").
		Where("seller_id = ? AND status = ?", sellerID, models.SubscriptionActive).
		Order("created_at desc").
		First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.FreeTierLimits(), nil
		}
		return models.PlanLimits{}, err
	}
	return sub.Plan.Limits, nil
}

// CheckKitchenQuota fails with a QuotaError when the seller already owns the
// maximum number of kitchens their plan allows.
func CheckKitchenQuota(db *gorm.DB, sellerID uint) error {
	lim, err := Resolve(db, sellerID)
	if err != nil {
		return err
	}
	if lim.MaxKitchens == Unlimited {
		return nil
	}
	var count int64
	if err := db.Model(&models.Kitchen{}).Where("seller_id = ?", sellerID).Count(&count).Error; err != nil {
		return err
	}
	if int(count) >= lim.MaxKitchens {
		return &QuotaError{Resource: "kitchen", Current: int(count), Max: lim.MaxKitchens}
	}
	return nil
}

// CheckMenuItemQuota fails with a QuotaError when the kitchen already holds
// the maximum number of menu items its seller's plan allows.
func CheckMenuItemQuota(db *gorm.DB, sellerID, kitchenID uint) error {
	lim, err := Resolve(db, sellerID)
	if err != nil {
		return err
	}
	if lim.MaxMenuItemsPerKitchen == Unlimited {
		return nil
	}
	var count int64
	if err := db.Model(&models.MenuItem{}).Where("kitchen_id = ?", kitchenID).Count(&count).Error; err != nil {
		return err
	}
	if int(count) >= lim.MaxMenuItemsPerKitchen {
		return &QuotaError{Resource: "menu item", Current: int(count), Max: lim.MaxMenuItemsPerKitchen}
	}
	return nil
}
