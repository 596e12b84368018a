package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tiffin-market-api/mailer"
	"tiffin-market-api/models"
	"tiffin-market-api/statemachine"
)

type ReviewKitchenRequest struct {
	Status  models.KitchenStatus `json:"status" binding:"required"`
	Remarks string               `json:"remarks"`
}

// ReviewKitchen moves a kitchen through the approval state machine. The
// state change is persisted first; the owner notification that follows is
// best-effort.
func (h *Handler) ReviewKitchen(c *gin.Context) {
	var kitchen models.Kitchen
	if err := h.DB.Preload("Seller").First(&kitchen, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Kitchen not found")
		return
	}

	var req ReviewKitchenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := statemachine.CanReview(kitchen.Status, req.Status); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	active := statemachine.ActivatesKitchen(req.Status)
	update := map[string]interface{}{
		"status":    req.Status,
		"remarks":   req.Remarks,
		"is_active": active,
	}
	if !active {
		update["is_open"] = false
	}
	if err := h.DB.Model(&kitchen).Updates(update).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update kitchen")
		return
	}

	subject, body := mailer.KitchenStatusEmail(kitchen.Name, string(req.Status), req.Remarks)
	h.notify(kitchen.Seller.Email, subject, body)

	ok(c, http.StatusOK, "Kitchen status updated", gin.H{
		"kitchen_id": kitchen.ID,
		"status":     req.Status,
	})
}

// AdminListKitchens returns all kitchens, optionally filtered by status.
func (h *Handler) AdminListKitchens(c *gin.Context) {
	query := h.DB.Preload("Seller").Preload("MenuItems")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var kitchens []models.Kitchen
	query.Order("created_at desc").Find(&kitchens)
	ok(c, http.StatusOK, "", gin.H{"count": len(kitchens), "kitchens": kitchens})
}

// AdminListUsers returns all users, optionally filtered by role.
func (h *Handler) AdminListUsers(c *gin.Context) {
	query := h.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	var users []models.User
	query.Find(&users)
	ok(c, http.StatusOK, "", gin.H{"count": len(users), "users": users})
}

// AdminListSubscriptions returns all seller subscriptions.
func (h *Handler) AdminListSubscriptions(c *gin.Context) {
	query := h.DB.Preload("Plan")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var subs []models.SellerSubscription
	query.Order("created_at desc").Find(&subs)
	ok(c, http.StatusOK, "", gin.H{"count": len(subs), "subscriptions": subs})
}

// ── Plan management ─────────────────────────────────────────────────────────

type PlanRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Price       float64           `json:"price" binding:"required,gt=0"`
	Limits      models.PlanLimits `json:"limits"`
	IsActive    *bool             `json:"is_active"`
}

// CreatePlan adds a subscription plan to the catalogue.
func (h *Handler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	plan := models.SubscriptionPlan{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Limits:      req.Limits,
		IsActive:    true,
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if err := h.DB.Create(&plan).Error; err != nil {
		fail(c, http.StatusConflict, "A plan with this name already exists")
		return
	}
	ok(c, http.StatusCreated, "Plan created", gin.H{"plan": plan})
}

// UpdatePlan rewrites a plan's price, limits or visibility.
func (h *Handler) UpdatePlan(c *gin.Context) {
	var plan models.SubscriptionPlan
	if err := h.DB.First(&plan, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Plan not found")
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	plan.Name = req.Name
	plan.Description = req.Description
	plan.Price = req.Price
	plan.Limits = req.Limits
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if err := h.DB.Save(&plan).Error; err != nil {
		fail(c, http.StatusConflict, "A plan with this name already exists")
		return
	}
	ok(c, http.StatusOK, "Plan updated", gin.H{"plan": plan})
}

// DeletePlan removes a plan, or deactivates it when subscriptions still
// reference it.
func (h *Handler) DeletePlan(c *gin.Context) {
	var plan models.SubscriptionPlan
	if err := h.DB.First(&plan, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Plan not found")
		return
	}

	var refs int64
	h.DB.Model(&models.SellerSubscription{}).Where("plan_id = ?", plan.ID).Count(&refs)
	if refs > 0 {
		h.DB.Model(&plan).Update("is_active", false)
		ok(c, http.StatusOK, "Plan has subscribers and was deactivated instead of deleted", gin.H{"plan": plan})
		return
	}

	h.DB.Delete(&plan)
	ok(c, http.StatusOK, "Plan deleted", nil)
}
