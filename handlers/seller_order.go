package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tiffin-market-api/mailer"
	"tiffin-market-api/middleware"
	"tiffin-market-api/models"
	"tiffin-market-api/statemachine"
)

// SellerOrders returns all orders across the seller's kitchens with a
// per-status summary for the dashboard.
func (h *Handler) SellerOrders(c *gin.Context) {
	sellerID := middleware.GetUserID(c)

	query := h.DB.Preload("Items").Preload("Customer").Preload("Kitchen").
		Where("seller_id = ?", sellerID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if kitchenID := c.Query("kitchen_id"); kitchenID != "" {
		query = query.Where("kitchen_id = ?", kitchenID)
	}

	var orders []models.Order
	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	ok(c, http.StatusOK, "", gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus advances one of the seller's orders along the linear
// lifecycle, or cancels it. Terminal orders are frozen. Reaching delivered
// triggers a best-effort email to the customer after the persist.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	sellerID := middleware.GetUserID(c)

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	if order.SellerID != sellerID {
		fail(c, http.StatusForbidden, "This order does not belong to your kitchen")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !statemachine.ValidOrderStatus(req.Status) {
		fail(c, http.StatusBadRequest, "Unknown order status: "+string(req.Status))
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status); err != nil {
		status := http.StatusBadRequest
		if err == statemachine.ErrTerminalState {
			status = http.StatusConflict
		}
		failWithData(c, status, err.Error(), gin.H{"current_status": order.Status})
		return
	}

	prev := order.Status
	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	if req.Status == models.StatusDelivered {
		var customer models.User
		if err := h.DB.First(&customer, order.CustomerID).Error; err == nil {
			subject, body := mailer.OrderDeliveredEmail(customer.Name, order.OrderNumber)
			h.notify(customer.Email, subject, body)
		}
	}

	ok(c, http.StatusOK, "Order status updated", gin.H{
		"order_id":        order.ID,
		"previous_status": prev,
		"current_status":  req.Status,
	})
}
