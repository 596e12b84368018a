package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tiffin-market-api/models"
)

// ListKitchens returns approved kitchens, optionally filtered by search
// text or category, paged by limit/offset.
func (h *Handler) ListKitchens(c *gin.Context) {
	query := h.DB.WithContext(c.Request.Context()).
		Where("status = ?", models.KitchenApproved)

	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if open := c.Query("open"); open == "true" {
		query = query.Where("is_open = ?", true)
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var kitchens []models.Kitchen
	query.Order("rating desc, created_at desc").Limit(limit).Offset(offset).Find(&kitchens)

	ok(c, http.StatusOK, "", gin.H{"count": len(kitchens), "kitchens": kitchens})
}

// GetKitchen returns one approved kitchen with its available menu.
func (h *Handler) GetKitchen(c *gin.Context) {
	id := c.Param("id")
	var kitchen models.Kitchen
	err := h.DB.WithContext(c.Request.Context()).
		Preload("MenuItems", "is_available = ?", true).
		Where("id = ? AND status = ?", id, models.KitchenApproved).
		First(&kitchen).Error
	if err != nil {
		fail(c, http.StatusNotFound, "Kitchen not found")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"kitchen": kitchen})
}

// ListPlans returns all active subscription plans.
func (h *Handler) ListPlans(c *gin.Context) {
	var plans []models.SubscriptionPlan
	h.DB.Where("is_active = ?", true).Order("price asc").Find(&plans)
	ok(c, http.StatusOK, "", gin.H{"count": len(plans), "plans": plans})
}
