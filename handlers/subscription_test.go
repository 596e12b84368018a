package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffin-market-api/models"
	"tiffin-market-api/payment"
)

func seedPlan(t *testing.T, e *env, name string, price float64) models.SubscriptionPlan {
	t.Helper()
	plan := models.SubscriptionPlan{
		Name: name, Price: price,
		Limits:   models.PlanLimits{MaxKitchens: 5, MaxMenuItemsPerKitchen: 30},
		IsActive: true,
	}
	require.NoError(t, e.db.Create(&plan).Error)
	return plan
}

func TestSubscriptionPurchaseFlow(t *testing.T) {
	e := newEnv(t)
	seller := e.createUser(t, "Asha", "asha@example.com", models.RoleSeller)
	plan := seedPlan(t, e, "Pro", 1499)

	w := e.do(t, http.MethodPost, "/api/seller/subscription/checkout", map[string]interface{}{
		"plan_id": plan.ID,
	}, &seller)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode(t, w)
	subID := uint(resp.Data["subscription_id"].(float64))
	assert.Equal(t, 1499.0, resp.Data["amount"])

	// Simulate the gateway callback with a valid signature.
	sig := payment.Sign("order_gw_1", "pay_gw_1", e.cfg.PaymentSecret)
	w = e.do(t, http.MethodPost, "/api/seller/subscription/verify", map[string]interface{}{
		"subscription_id":    subID,
		"gateway_order_id":   "order_gw_1",
		"gateway_payment_id": "pay_gw_1",
		"signature":          sig,
	}, &seller)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sub models.SellerSubscription
	require.NoError(t, e.db.First(&sub, subID).Error)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.NotNil(t, sub.ActivatedAt)
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	e := newEnv(t)
	seller := e.createUser(t, "Asha", "asha@example.com", models.RoleSeller)
	plan := seedPlan(t, e, "Pro", 1499)

	w := e.do(t, http.MethodPost, "/api/seller/subscription/checkout", map[string]interface{}{
		"plan_id": plan.ID,
	}, &seller)
	require.Equal(t, http.StatusCreated, w.Code)
	subID := uint(decode(t, w).Data["subscription_id"].(float64))

	w = e.do(t, http.MethodPost, "/api/seller/subscription/verify", map[string]interface{}{
		"subscription_id":    subID,
		"gateway_order_id":   "order_gw_1",
		"gateway_payment_id": "pay_gw_1",
		"signature":          "forged",
	}, &seller)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var sub models.SellerSubscription
	require.NoError(t, e.db.First(&sub, subID).Error)
	assert.Equal(t, models.SubscriptionCancelled, sub.Status, "failed verification never activates")
}

func TestActivationRetiresPriorActive(t *testing.T) {
	e := newEnv(t)
	seller := e.createUser(t, "Asha", "asha@example.com", models.RoleSeller)
	old := seedPlan(t, e, "Starter", 499)
	newer := seedPlan(t, e, "Pro", 1499)

	require.NoError(t, e.db.Create(&models.SellerSubscription{
		SellerID: seller.ID, PlanID: old.ID,
		Status: models.SubscriptionActive, Receipt: "rcpt_old",
	}).Error)

	w := e.do(t, http.MethodPost, "/api/seller/subscription/checkout", map[string]interface{}{
		"plan_id": newer.ID,
	}, &seller)
	require.Equal(t, http.StatusCreated, w.Code)
	subID := uint(decode(t, w).Data["subscription_id"].(float64))

	sig := payment.Sign("order_gw_2", "pay_gw_2", e.cfg.PaymentSecret)
	w = e.do(t, http.MethodPost, "/api/seller/subscription/verify", map[string]interface{}{
		"subscription_id":    subID,
		"gateway_order_id":   "order_gw_2",
		"gateway_payment_id": "pay_gw_2",
		"signature":          sig,
	}, &seller)
	require.Equal(t, http.StatusOK, w.Code)

	var active int64
	e.db.Model(&models.SellerSubscription{}).
		Where("seller_id = ? AND status = ?", seller.ID, models.SubscriptionActive).
		Count(&active)
	assert.Equal(t, int64(1), active, "at most one active subscription per seller")
}

func TestCancelSubscription(t *testing.T) {
	e := newEnv(t)
	seller := e.createUser(t, "Asha", "asha@example.com", models.RoleSeller)
	plan := seedPlan(t, e, "Pro", 1499)
	require.NoError(t, e.db.Create(&models.SellerSubscription{
		SellerID: seller.ID, PlanID: plan.ID,
		Status: models.SubscriptionActive, Receipt: "rcpt_x",
	}).Error)

	w := e.do(t, http.MethodDelete, "/api/seller/subscription", nil, &seller)
	require.Equal(t, http.StatusOK, w.Code)

	// A second cancel has nothing to act on.
	w = e.do(t, http.MethodDelete, "/api/seller/subscription", nil, &seller)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMySubscriptionFreeTier(t *testing.T) {
	e := newEnv(t)
	seller := e.createUser(t, "Asha", "asha@example.com", models.RoleSeller)

	w := e.do(t, http.MethodGet, "/api/seller/subscription", nil, &seller)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	lim, ok := resp.Data["limits"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.0, lim["max_kitchens"])
	assert.Equal(t, 3.0, lim["max_menu_items_per_kitchen"])
}
