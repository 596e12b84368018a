package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tiffin-market-api/limits"
	"tiffin-market-api/mailer"
	"tiffin-market-api/middleware"
	"tiffin-market-api/models"
)

// quotaOrFail translates a limits error into the right envelope. Returns
// true when the request was already answered.
func quotaOrFail(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	var qe *limits.QuotaError
	if errors.As(err, &qe) {
		failWithData(c, http.StatusForbidden, qe.Error(), gin.H{
			"current":         qe.Current,
			"max":             qe.Max,
			"upgradeRequired": true,
		})
		return true
	}
	fail(c, http.StatusInternalServerError, "Failed to check subscription limits")
	return true
}

// ── Kitchen management ──────────────────────────────────────────────────────

type CreateKitchenRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Address     string            `json:"address" binding:"required"`
	Phone       string            `json:"phone"`
	Category    string            `json:"category"`
	PictureURL  string            `json:"picture_url"`
	Morning     models.TimeWindow `json:"morning_hours"`
	Afternoon   models.TimeWindow `json:"afternoon_hours"`
	Evening     models.TimeWindow `json:"evening_hours"`
}

// CreateKitchen registers a new kitchen for the seller, quota permitting.
// The kitchen starts pending and invisible until an admin approves it.
func (h *Handler) CreateKitchen(c *gin.Context) {
	sellerID := middleware.GetUserID(c)

	var req CreateKitchenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if quotaOrFail(c, limits.CheckKitchenQuota(h.DB, sellerID)) {
		return
	}

	var existing models.Kitchen
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		fail(c, http.StatusConflict, "A kitchen with this name already exists")
		return
	}

	kitchen := models.Kitchen{
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Category:    req.Category,
		PictureURL:  req.PictureURL,
		Morning:     req.Morning,
		Afternoon:   req.Afternoon,
		Evening:     req.Evening,
		Status:      models.KitchenPending,
	}
	if err := h.DB.Create(&kitchen).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create kitchen")
		return
	}

	var seller models.User
	if err := h.DB.First(&seller, sellerID).Error; err == nil {
		subject, body := mailer.KitchenSubmittedEmail(kitchen.Name, seller.Email)
		h.notify(h.Cfg.AdminEmail, subject, body)
	}

	ok(c, http.StatusCreated, "Kitchen submitted for approval", gin.H{"kitchen": kitchen})
}

// MyKitchens lists the seller's kitchens with their menus.
func (h *Handler) MyKitchens(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	var kitchens []models.Kitchen
	h.DB.Preload("MenuItems").Where("seller_id = ?", sellerID).Find(&kitchens)
	ok(c, http.StatusOK, "", gin.H{"count": len(kitchens), "kitchens": kitchens})
}

// ownedKitchen loads a kitchen and answers the request itself when it is
// missing or not the caller's.
func (h *Handler) ownedKitchen(c *gin.Context, sellerID uint, id string) (models.Kitchen, bool) {
	var kitchen models.Kitchen
	if err := h.DB.First(&kitchen, id).Error; err != nil {
		fail(c, http.StatusNotFound, "Kitchen not found")
		return kitchen, false
	}
	if kitchen.SellerID != sellerID {
		fail(c, http.StatusForbidden, "You don't own this kitchen")
		return kitchen, false
	}
	return kitchen, true
}

// UpdateKitchen updates safe kitchen fields. Approval status, rating and
// ownership are never writable here.
func (h *Handler) UpdateKitchen(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	kitchen, found := h.ownedKitchen(c, sellerID, c.Param("id"))
	if !found {
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	allowed := map[string]bool{
		"name": true, "description": true, "address": true, "phone": true,
		"category": true, "picture_url": true,
		"morning_open": true, "morning_close": true,
		"afternoon_open": true, "afternoon_close": true,
		"evening_open": true, "evening_close": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	if len(update) > 0 {
		if err := h.DB.Model(&kitchen).Updates(update).Error; err != nil {
			fail(c, http.StatusConflict, "Kitchen name already in use")
			return
		}
	}
	ok(c, http.StatusOK, "Kitchen updated", gin.H{"kitchen": kitchen})
}

// DeleteKitchen removes a kitchen and its menu items.
func (h *Handler) DeleteKitchen(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	kitchen, found := h.ownedKitchen(c, sellerID, c.Param("id"))
	if !found {
		return
	}
	h.DB.Where("kitchen_id = ?", kitchen.ID).Delete(&models.MenuItem{})
	h.DB.Delete(&kitchen)
	ok(c, http.StatusOK, "Kitchen deleted", nil)
}

type ToggleOpenRequest struct {
	IsOpen *bool `json:"is_open" binding:"required"`
}

// ToggleKitchenOpen flips the open/closed flag. Only approved kitchens may
// be opened or closed by their seller.
func (h *Handler) ToggleKitchenOpen(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	kitchen, found := h.ownedKitchen(c, sellerID, c.Param("id"))
	if !found {
		return
	}

	var req ToggleOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if kitchen.Status != models.KitchenApproved {
		fail(c, http.StatusForbidden, "Kitchen must be approved before it can be opened")
		return
	}

	h.DB.Model(&kitchen).Update("is_open", *req.IsOpen)
	kitchen.IsOpen = *req.IsOpen
	ok(c, http.StatusOK, "Kitchen availability updated", gin.H{"kitchen": kitchen})
}

// ── Menu management ─────────────────────────────────────────────────────────

type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	IsVeg       bool    `json:"is_veg"`
	PictureURL  string  `json:"picture_url"`
}

// AddMenuItem adds an item to one of the seller's kitchens, quota permitting.
func (h *Handler) AddMenuItem(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	kitchen, found := h.ownedKitchen(c, sellerID, c.Param("id"))
	if !found {
		return
	}

	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if quotaOrFail(c, limits.CheckMenuItemQuota(h.DB, sellerID, kitchen.ID)) {
		return
	}

	item := models.MenuItem{
		KitchenID:   kitchen.ID,
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsVeg:       req.IsVeg,
		PictureURL:  req.PictureURL,
		IsAvailable: true,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to add menu item")
		return
	}
	ok(c, http.StatusCreated, "Menu item added", gin.H{"item": item})
}

// UpdateMenuItem updates a menu item owned by the caller.
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	sellerID := middleware.GetUserID(c)

	var item models.MenuItem
	if err := h.DB.First(&item, c.Param("itemId")).Error; err != nil {
		fail(c, http.StatusNotFound, "Menu item not found")
		return
	}
	if item.SellerID != sellerID {
		fail(c, http.StatusForbidden, "You don't own this menu item")
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	allowed := map[string]bool{
		"name": true, "description": true, "price": true, "category": true,
		"is_veg": true, "is_available": true, "picture_url": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	if len(update) > 0 {
		h.DB.Model(&item).Updates(update)
	}
	ok(c, http.StatusOK, "Menu item updated", gin.H{"item": item})
}

// DeleteMenuItem removes a menu item owned by the caller.
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	sellerID := middleware.GetUserID(c)

	var item models.MenuItem
	if err := h.DB.First(&item, c.Param("itemId")).Error; err != nil {
		fail(c, http.StatusNotFound, "Menu item not found")
		return
	}
	if item.SellerID != sellerID {
		fail(c, http.StatusForbidden, "You don't own this menu item")
		return
	}
	h.DB.Delete(&item)
	ok(c, http.StatusOK, "Menu item deleted", nil)
}
