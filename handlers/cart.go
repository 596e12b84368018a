package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tiffin-market-api/middleware"
	"tiffin-market-api/models"
	"tiffin-market-api/pricing"
)

// loadCart fetches (or lazily creates) the customer's single cart.
func (h *Handler) loadCart(customerID uint) (models.Cart, error) {
	var cart models.Cart
	err := h.DB.Preload("Items").Where("customer_id = ?", customerID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		cart = models.Cart{CustomerID: customerID}
		err = h.DB.Create(&cart).Error
	}
	return cart, err
}

// saveCartTotal recomputes and persists the cart total from its items.
func (h *Handler) saveCartTotal(cart *models.Cart) error {
	var items []models.CartItem
	if err := h.DB.Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
		return err
	}
	cart.Items = items
	cart.Total = pricing.CartTotal(items)
	return h.DB.Model(cart).Update("total", cart.Total).Error
}

// GetCart returns the caller's cart, creating an empty one on first read.
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.loadCart(middleware.GetUserID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"cart": cart})
}

type AddCartItemRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// AddCartItem puts a menu item in the cart; adding the same item again
// merges quantities. The item must be available and its kitchen approved.
func (h *Handler) AddCartItem(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var item models.MenuItem
	if err := h.DB.First(&item, req.MenuItemID).Error; err != nil {
		fail(c, http.StatusNotFound, "Menu item not found")
		return
	}
	if !item.IsAvailable {
		fail(c, http.StatusBadRequest, "Menu item is not available")
		return
	}
	var kitchen models.Kitchen
	if err := h.DB.Where("id = ? AND status = ?", item.KitchenID, models.KitchenApproved).
		First(&kitchen).Error; err != nil {
		fail(c, http.StatusBadRequest, "Kitchen is not accepting orders")
		return
	}

	cart, err := h.loadCart(customerID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	var line models.CartItem
	err = h.DB.Where("cart_id = ? AND menu_item_id = ?", cart.ID, item.ID).First(&line).Error
	if err == nil {
		h.DB.Model(&line).Update("quantity", line.Quantity+req.Quantity)
	} else {
		line = models.CartItem{
			CartID:     cart.ID,
			MenuItemID: item.ID,
			KitchenID:  item.KitchenID,
			SellerID:   item.SellerID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   req.Quantity,
		}
		if err := h.DB.Create(&line).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to add item")
			return
		}
	}

	if err := h.saveCartTotal(&cart); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	ok(c, http.StatusOK, "Item added to cart", gin.H{"cart": cart})
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// UpdateCartItem sets a line's quantity; zero removes the line.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	itemID := c.Param("itemId")

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := h.loadCart(customerID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	var line models.CartItem
	if err := h.DB.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&line).Error; err != nil {
		fail(c, http.StatusNotFound, "Cart item not found")
		return
	}

	if *req.Quantity == 0 {
		h.DB.Delete(&line)
	} else {
		h.DB.Model(&line).Update("quantity", *req.Quantity)
	}

	if err := h.saveCartTotal(&cart); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	ok(c, http.StatusOK, "Cart updated", gin.H{"cart": cart})
}

// RemoveCartItem deletes one line from the cart.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	itemID := c.Param("itemId")

	cart, err := h.loadCart(customerID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	res := h.DB.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Cart item not found")
		return
	}

	if err := h.saveCartTotal(&cart); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	ok(c, http.StatusOK, "Item removed", gin.H{"cart": cart})
}

// ClearCart removes every line from the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	cart, err := h.loadCart(middleware.GetUserID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	h.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{})
	h.DB.Model(&cart).Update("total", 0)
	cart.Items = nil
	cart.Total = 0
	ok(c, http.StatusOK, "Cart cleared", gin.H{"cart": cart})
}
