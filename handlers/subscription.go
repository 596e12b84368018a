package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tiffin-market-api/limits"
	"tiffin-market-api/middleware"
	"tiffin-market-api/models"
	"tiffin-market-api/payment"
)

// MySubscription returns the seller's active subscription (if any) together
// with the limits currently in effect.
func (h *Handler) MySubscription(c *gin.Context) {
	sellerID := middleware.GetUserID(c)

	lim, err := limits.Resolve(h.DB, sellerID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to resolve limits")
		return
	}

	data := gin.H{"limits": lim}
	var sub models.SellerSubscription
	if err := h.DB.Preload("Plan").
		Where("seller_id = ? AND status = ?", sellerID, models.SubscriptionActive).
		First(&sub).Error; err == nil {
		data["subscription"] = sub
	}
	ok(c, http.StatusOK, "", data)
}

type SubscriptionCheckoutRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

// SubscriptionCheckout opens a pending subscription purchase and hands the
// client what it needs for the gateway checkout: receipt, amount, key id.
func (h *Handler) SubscriptionCheckout(c *gin.Context) {
	sellerID := middleware.GetUserID(c)

	var req SubscriptionCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var plan models.SubscriptionPlan
	if err := h.DB.Where("id = ? AND is_active = ?", req.PlanID, true).First(&plan).Error; err != nil {
		fail(c, http.StatusNotFound, "Subscription plan not found")
		return
	}

	sub := models.SellerSubscription{
		SellerID: sellerID,
		PlanID:   plan.ID,
		Status:   models.SubscriptionPending,
		Receipt:  payment.NewReceipt(),
	}
	if err := h.DB.Create(&sub).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to start checkout")
		return
	}

	ok(c, http.StatusCreated, "Checkout created", gin.H{
		"subscription_id": sub.ID,
		"receipt":         sub.Receipt,
		"amount":          plan.Price,
		"currency":        "INR",
		"key_id":          h.Cfg.PaymentKeyID,
	})
}

type VerifyPaymentRequest struct {
	SubscriptionID   uint   `json:"subscription_id" binding:"required"`
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

// VerifySubscriptionPayment checks the gateway signature and activates the
// pending subscription, cancelling any previously active one first.
func (h *Handler) VerifySubscriptionPayment(c *gin.Context) {
	sellerID := middleware.GetUserID(c)

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var sub models.SellerSubscription
	if err := h.DB.Where("id = ? AND seller_id = ?", req.SubscriptionID, sellerID).
		First(&sub).Error; err != nil {
		fail(c, http.StatusNotFound, "Subscription not found")
		return
	}
	if sub.Status != models.SubscriptionPending {
		fail(c, http.StatusConflict, "Subscription is not awaiting payment")
		return
	}

	if err := payment.Verify(req.GatewayOrderID, req.GatewayPaymentID, req.Signature, h.Cfg.PaymentSecret); err != nil {
		h.DB.Model(&sub).Update("status", models.SubscriptionCancelled)
		fail(c, http.StatusBadRequest, "Payment verification failed")
		return
	}

	// One active subscription per seller: retire the previous one first.
	h.DB.Model(&models.SellerSubscription{}).
		Where("seller_id = ? AND status = ?", sellerID, models.SubscriptionActive).
		Update("status", models.SubscriptionCancelled)

	now := time.Now()
	if err := h.DB.Model(&sub).Updates(map[string]interface{}{
		"status":             models.SubscriptionActive,
		"gateway_order_id":   req.GatewayOrderID,
		"gateway_payment_id": req.GatewayPaymentID,
		"activated_at":       now,
	}).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to activate subscription")
		return
	}

	h.DB.Preload("Plan").First(&sub, sub.ID)
	ok(c, http.StatusOK, "Subscription activated", gin.H{"subscription": sub})
}

// CancelSubscription retires the seller's active subscription; limits fall
// back to the free tier.
func (h *Handler) CancelSubscription(c *gin.Context) {
	sellerID := middleware.GetUserID(c)

	res := h.DB.Model(&models.SellerSubscription{}).
		Where("seller_id = ? AND status = ?", sellerID, models.SubscriptionActive).
		Update("status", models.SubscriptionCancelled)
	if res.Error != nil {
		fail(c, http.StatusInternalServerError, "Failed to cancel subscription")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "No active subscription to cancel")
		return
	}
	ok(c, http.StatusOK, "Subscription cancelled", gin.H{"limits": models.FreeTierLimits()})
}
