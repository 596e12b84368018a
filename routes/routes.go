package routes

import (
	"github.com/gin-gonic/gin"

	"tiffin-market-api/config"
	"tiffin-market-api/handlers"
	"tiffin-market-api/middleware"
	"tiffin-market-api/models"
)

// Setup registers every route group. The auth endpoints sit behind the rate
// limiter; everything else behind the token and role guards it needs.
func Setup(r *gin.Engine, h *handlers.Handler, cfg config.App, limiter *middleware.RateLimiter) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		auth := public.Group("/auth")
		auth.Use(limiter.Limit())
		{
			auth.POST("/signup", h.Signup)
			auth.POST("/verify", h.Verify)
			auth.POST("/login", h.Login)
			auth.POST("/logout", h.Logout)
			auth.POST("/forgot-password", h.ForgotPassword)
			auth.POST("/reset-password", h.ResetPassword)
		}

		public.GET("/kitchens", h.ListKitchens)
		public.GET("/kitchens/:id", h.GetKitchen)
		public.GET("/plans", h.ListPlans)
	}

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/api")
	authed.Use(middleware.AuthRequired(cfg))
	{
		authed.GET("/me", h.Me)
		authed.PUT("/me", h.UpdateMe)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api")
	customer.Use(middleware.AuthRequired(cfg), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.GET("/cart", h.GetCart)
		customer.POST("/cart/items", h.AddCartItem)
		customer.PUT("/cart/items/:itemId", h.UpdateCartItem)
		customer.DELETE("/cart/items/:itemId", h.RemoveCartItem)
		customer.DELETE("/cart", h.ClearCart)

		customer.POST("/orders", h.Checkout)
		customer.GET("/orders", h.MyOrders)
		customer.GET("/orders/:id", h.GetOrder)
		customer.PUT("/orders/:id/cancel", h.CancelOrder)
		customer.POST("/orders/:id/review", h.ReviewOrder)
	}

	// ── Seller routes ──────────────────────────────────────────────
	seller := r.Group("/api/seller")
	seller.Use(middleware.AuthRequired(cfg), middleware.RoleRequired(models.RoleSeller))
	{
		seller.POST("/kitchens", h.CreateKitchen)
		seller.GET("/kitchens", h.MyKitchens)
		seller.PUT("/kitchens/:id", h.UpdateKitchen)
		seller.DELETE("/kitchens/:id", h.DeleteKitchen)
		seller.PUT("/kitchens/:id/open", h.ToggleKitchenOpen)

		seller.POST("/kitchens/:id/menu", h.AddMenuItem)
		seller.PUT("/menu/:itemId", h.UpdateMenuItem)
		seller.DELETE("/menu/:itemId", h.DeleteMenuItem)

		seller.GET("/orders", h.SellerOrders)
		seller.PUT("/orders/:id/status", h.UpdateOrderStatus)

		seller.GET("/subscription", h.MySubscription)
		seller.POST("/subscription/checkout", h.SubscriptionCheckout)
		seller.POST("/subscription/verify", h.VerifySubscriptionPayment)
		seller.DELETE("/subscription", h.CancelSubscription)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(cfg), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.PUT("/kitchens/:id/status", h.ReviewKitchen)
		admin.GET("/kitchens", h.AdminListKitchens)
		admin.GET("/users", h.AdminListUsers)
		admin.GET("/subscriptions", h.AdminListSubscriptions)

		admin.POST("/plans", h.CreatePlan)
		admin.PUT("/plans/:id", h.UpdatePlan)
		admin.DELETE("/plans/:id", h.DeletePlan)
	}
}
