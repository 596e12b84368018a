package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"tiffin-market-api/middleware"
	"tiffin-market-api/models"
	"tiffin-market-api/pricing"
	"tiffin-market-api/statemachine"
)

func newOrderNumber() string {
	return "TFN-" + strings.ToUpper(uuid.NewString()[:8])
}

type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	Notes           string `json:"notes"`
}

// Checkout converts the cart into one order per kitchen. Cart partitions
// whose kitchen no longer exists are skipped and reported; the cart is
// cleared only when at least one order was created.
func (h *Handler) Checkout(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := h.loadCart(customerID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	if len(cart.Items) == 0 {
		fail(c, http.StatusBadRequest, "Cart is empty")
		return
	}

	// Partition line items by kitchen, preserving first-seen order.
	partitions := map[uint][]models.CartItem{}
	var kitchenIDs []uint
	for _, it := range cart.Items {
		if _, seen := partitions[it.KitchenID]; !seen {
			kitchenIDs = append(kitchenIDs, it.KitchenID)
		}
		partitions[it.KitchenID] = append(partitions[it.KitchenID], it)
	}

	var orders []models.Order
	var skipped []uint
	for _, kid := range kitchenIDs {
		var kitchen models.Kitchen
		if err := h.DB.First(&kitchen, kid).Error; err != nil {
			// Kitchen deleted between cart-add and checkout: drop the
			// partition, report it, never create a partial order.
			log.Warn().Uint("kitchen_id", kid).Msg("checkout skipping deleted kitchen")
			skipped = append(skipped, kid)
			continue
		}

		items := partitions[kid]
		charges := pricing.ChargesFor(pricing.Subtotal(items), h.Cfg.DeliveryFee, h.Cfg.TaxPercent)

		order := models.Order{
			OrderNumber:     newOrderNumber(),
			CustomerID:      customerID,
			SellerID:        kitchen.SellerID,
			KitchenID:       kitchen.ID,
			Status:          models.StatusPending,
			Subtotal:        charges.Subtotal,
			DeliveryFee:     charges.DeliveryFee,
			Tax:             charges.Tax,
			Total:           charges.Total,
			DeliveryAddress: req.DeliveryAddress,
			Notes:           req.Notes,
		}
		for _, it := range items {
			order.Items = append(order.Items, models.OrderItem{
				MenuItemID: it.MenuItemID,
				Quantity:   it.Quantity,
				Price:      it.Price,
				Name:       it.Name,
			})
		}
		if err := h.DB.Create(&order).Error; err != nil {
			log.Error().Err(err).Uint("kitchen_id", kid).Msg("failed to create order")
			continue
		}
		orders = append(orders, order)
	}

	if len(orders) == 0 {
		failWithData(c, http.StatusBadRequest, "No orders could be created", gin.H{"skipped_kitchens": skipped})
		return
	}

	h.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{})
	h.DB.Model(&cart).Update("total", 0)

	ok(c, http.StatusCreated, "Order placed", gin.H{
		"orders":           orders,
		"skipped_kitchens": skipped,
	})
}

// MyOrders returns the caller's orders, newest first.
func (h *Handler) MyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	h.DB.Preload("Items").Preload("Kitchen").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	ok(c, http.StatusOK, "", gin.H{"count": len(orders), "orders": orders})
}

// GetOrder returns one of the caller's orders in full detail.
func (h *Handler) GetOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var order models.Order
	if err := h.DB.Preload("Items").Preload("Kitchen").First(&order, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	if order.CustomerID != customerID {
		fail(c, http.StatusForbidden, "This order does not belong to you")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"order": order})
}

// CancelOrder lets the customer cancel an order that is still pending.
func (h *Handler) CancelOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	if order.CustomerID != customerID {
		fail(c, http.StatusForbidden, "This order does not belong to you")
		return
	}
	if statemachine.IsTerminal(order.Status) {
		fail(c, http.StatusConflict, statemachine.ErrTerminalState.Error())
		return
	}
	if order.Status != models.StatusPending {
		fail(c, http.StatusConflict, "Order is already being prepared and can no longer be cancelled")
		return
	}

	h.DB.Model(&order).Update("status", models.StatusCancelled)
	ok(c, http.StatusOK, "Order cancelled", gin.H{"order_id": order.ID})
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
	Items   []struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Rating     int  `json:"rating" binding:"required,min=1,max=5"`
	} `json:"items"`
}

// ReviewOrder records the customer's one-time review of a delivered order
// and recomputes the kitchen (and any rated items') aggregate ratings.
func (h *Handler) ReviewOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	if order.CustomerID != customerID {
		fail(c, http.StatusForbidden, "This order does not belong to you")
		return
	}
	if order.Status != models.StatusDelivered {
		fail(c, http.StatusBadRequest, "Only delivered orders can be reviewed")
		return
	}
	if order.Rating != nil {
		fail(c, http.StatusConflict, "Order has already been reviewed")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	orderItems := map[uint]bool{}
	for _, it := range order.Items {
		orderItems[it.MenuItemID] = true
	}
	for _, ir := range req.Items {
		if !orderItems[ir.MenuItemID] {
			fail(c, http.StatusBadRequest, "Rated item was not part of this order")
			return
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		review := models.Review{
			CustomerID: customerID,
			OrderID:    order.ID,
			TargetID:   order.KitchenID,
			Type:       models.ReviewKitchen,
			KitchenID:  order.KitchenID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"rating":         req.Rating,
			"review_comment": req.Comment,
			"reviewed_at":    now,
		}).Error; err != nil {
			return err
		}

		if err := recomputeKitchenRating(tx, order.KitchenID); err != nil {
			return err
		}

		for _, ir := range req.Items {
			itemReview := models.Review{
				CustomerID: customerID,
				OrderID:    order.ID,
				TargetID:   ir.MenuItemID,
				Type:       models.ReviewItem,
				KitchenID:  order.KitchenID,
				Rating:     ir.Rating,
			}
			if err := tx.Create(&itemReview).Error; err != nil {
				return err
			}
			if err := recomputeItemRating(tx, ir.MenuItemID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to save review")
		return
	}

	ok(c, http.StatusCreated, "Review saved", gin.H{"order_id": order.ID, "rating": req.Rating})
}

// recomputeKitchenRating sets the kitchen aggregate to the mean of all
// reviewed orders for that kitchen, rounded to one decimal place.
func recomputeKitchenRating(tx *gorm.DB, kitchenID uint) error {
	var ratings []int
	if err := tx.Model(&models.Order{}).
		Where("kitchen_id = ? AND rating IS NOT NULL", kitchenID).
		Pluck("rating", &ratings).Error; err != nil {
		return err
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return tx.Model(&models.Kitchen{}).Where("id = ?", kitchenID).Updates(map[string]interface{}{
		"rating":       pricing.RoundRating(sum, len(ratings)),
		"rating_count": len(ratings),
	}).Error
}

func recomputeItemRating(tx *gorm.DB, itemID uint) error {
	var ratings []int
	if err := tx.Model(&models.Review{}).
		Where("target_id = ? AND type = ?", itemID, models.ReviewItem).
		Pluck("rating", &ratings).Error; err != nil {
		return err
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return tx.Model(&models.MenuItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"rating":       pricing.RoundRating(sum, len(ratings)),
		"rating_count": len(ratings),
	}).Error
}
