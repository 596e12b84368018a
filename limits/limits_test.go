package limits

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tiffin-market-api/database"
	"tiffin-market-api/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the test.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedSeller(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	seller := models.User{Name: "Asha", Email: "asha@example.com", PasswordHash: "x", Role: models.RoleSeller}
	require.NoError(t, db.Create(&seller).Error)
	return seller
}

func activatePlan(t *testing.T, db *gorm.DB, sellerID uint, lim models.PlanLimits) {
	t.Helper()
	plan := models.SubscriptionPlan{Name: "Test Plan", Price: 100, Limits: lim, IsActive: true}
	require.NoError(t, db.Create(&plan).Error)
	sub := models.SellerSubscription{
		SellerID: sellerID,
		PlanID:   plan.ID,
		Status:   models.SubscriptionActive,
		Receipt:  "rcpt_test",
	}
	require.NoError(t, db.Create(&sub).Error)
}

func TestResolveFreeTierWithoutSubscription(t *testing.T) {
	db := testDB(t)
	seller := seedSeller(t, db)

	lim, err := Resolve(db, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FreeTierLimits(), lim)
	assert.Equal(t, 1, lim.MaxKitchens)
	assert.Equal(t, 3, lim.MaxMenuItemsPerKitchen)
}

func TestResolveUsesActivePlan(t *testing.T) {
	db := testDB(t)
	seller := seedSeller(t, db)
	activatePlan(t, db, seller.ID, models.PlanLimits{MaxKitchens: 5, MaxMenuItemsPerKitchen: 30, Analytics: true})

	lim, err := Resolve(db, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, lim.MaxKitchens)
	assert.Equal(t, 30, lim.MaxMenuItemsPerKitchen)
	assert.True(t, lim.Analytics)
}

func TestKitchenQuotaReached(t *testing.T) {
	db := testDB(t)
	seller := seedSeller(t, db)
	require.NoError(t, db.Create(&models.Kitchen{
		SellerID: seller.ID, Name: "Asha's Tiffins", Address: "12 MG Road",
	}).Error)

	err := CheckKitchenQuota(db, seller.ID)
	require.Error(t, err)

	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 1, qe.Current)
	assert.Equal(t, 1, qe.Max)
	assert.Contains(t, qe.Error(), "limit reached")
}

func TestKitchenQuotaUnderLimit(t *testing.T) {
	db := testDB(t)
	seller := seedSeller(t, db)
	assert.NoError(t, CheckKitchenQuota(db, seller.ID))
}

func TestUnlimitedSkipsCount(t *testing.T) {
	db := testDB(t)
	seller := seedSeller(t, db)
	activatePlan(t, db, seller.ID, models.PlanLimits{MaxKitchens: Unlimited, MaxMenuItemsPerKitchen: Unlimited})

	for i, name := range []string{"One", "Two", "Three"} {
		require.NoError(t, db.Create(&models.Kitchen{
			SellerID: seller.ID, Name: name, Address: "addr",
		}).Error, "kitchen %d", i)
	}
	assert.NoError(t, CheckKitchenQuota(db, seller.ID))
}

func TestMenuItemQuotaReached(t *testing.T) {
	db := testDB(t)
	seller := seedSeller(t, db)
	kitchen := models.Kitchen{SellerID: seller.ID, Name: "Asha's Tiffins", Address: "12 MG Road"}
	require.NoError(t, db.Create(&kitchen).Error)

	for _, name := range []string{"Dal", "Rice", "Roti"} {
		require.NoError(t, db.Create(&models.MenuItem{
			KitchenID: kitchen.ID, SellerID: seller.ID, Name: name, Price: 50,
		}).Error)
	}

	err := CheckMenuItemQuota(db, seller.ID, kitchen.ID)
	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 3, qe.Current)
	assert.Equal(t, 3, qe.Max)
}

func TestCancelledSubscriptionFallsBackToFreeTier(t *testing.T) {
	db := testDB(t)
	seller := seedSeller(t, db)
	plan := models.SubscriptionPlan{Name: "Pro", Price: 100, Limits: models.PlanLimits{MaxKitchens: 5, MaxMenuItemsPerKitchen: 30}}
	require.NoError(t, db.Create(&plan).Error)
	sub := models.SellerSubscription{SellerID: seller.ID, PlanID: plan.ID, Status: models.SubscriptionCancelled, Receipt: "rcpt_old"}
	require.NoError(t, db.Create(&sub).Error)

	lim, err := Resolve(db, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FreeTierLimits(), lim)
}
