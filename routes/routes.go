package routes

import (
	"mealmatch/handlers"
	"mealmatch/middleware"
	"mealmatch/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, api *handlers.API) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", api.Register)
		public.POST("/auth/login", api.Login)

		// Restaurants & menus (no auth needed)
		public.GET("/restaurants", api.ListRestaurants)
		public.GET("/restaurants/:id", api.GetRestaurant)
		public.GET("/restaurants/:id/menu", api.GetMenu)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", api.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", api.GetProfile)
		auth.PUT("/profile", api.UpdateProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", api.PlaceOrder)
		customer.GET("/orders", api.GetMyOrders)
		customer.GET("/orders/:id", api.GetOrderDetail)
		customer.PUT("/orders/:id", api.EditOrder)
		customer.PUT("/orders/:id/cancel", api.CancelOrder)
		customer.DELETE("/orders/:id", api.DeleteOrder)

		customer.GET("/payment-methods", api.ListPaymentMethods)
		customer.POST("/payment-methods", api.AddPaymentMethod)
		customer.PUT("/payment-methods/:id", api.UpdatePaymentMethod)
		customer.DELETE("/payment-methods/:id", api.DeletePaymentMethod)
		customer.PUT("/payment-methods/:id/default", api.SetDefaultPaymentMethod)
	}

	// ── Owner routes ───────────────────────────────────────────────
	owner := r.Group("/api/owner")
	owner.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleOwner))
	{
		// Restaurant management
		owner.POST("/restaurants", api.CreateRestaurant)
		owner.GET("/restaurants", api.GetMyRestaurants)
		owner.PUT("/restaurants/:id", api.UpdateRestaurant)
		owner.DELETE("/restaurants/:id", api.DeleteRestaurant)

		// Menu management
		owner.POST("/restaurants/:id/menu", api.AddMenuItem)
		owner.PUT("/menu/:itemId", api.UpdateMenuItem)
		owner.DELETE("/menu/:itemId", api.DeleteMenuItem)

		// Order management
		owner.GET("/orders", api.GetOwnerOrders)
		owner.PUT("/orders/:id/status", api.UpdateOrderStatus)

		// Earnings & payouts
		owner.GET("/account", api.GetAccount)
		owner.POST("/account/withdrawals", api.Withdraw)
		owner.GET("/payout-methods", api.ListPayoutMethods)
		owner.POST("/payout-methods", api.AddPayoutMethod)
		owner.PUT("/payout-methods/:id", api.UpdatePayoutMethod)
		owner.DELETE("/payout-methods/:id", api.DeletePayoutMethod)
		owner.PUT("/payout-methods/:id/default", api.SetDefaultPayoutMethod)
	}
}
