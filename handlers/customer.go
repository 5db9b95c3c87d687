package handlers

import (
	"net/http"
	"strconv"
	"time"

	"mealmatch/ledger"
	"mealmatch/methods"
	"mealmatch/middleware"
	"mealmatch/models"

	"github.com/gin-gonic/gin"
)

type OrderItemRequest struct {
	MenuItemID   string   `json:"menu_item_id"`
	RestaurantID string   `json:"restaurant_id"`
	Name         string   `json:"name"`
	Quantity     int      `json:"quantity"`
	Price        float64  `json:"price"`
	OldPrice     float64  `json:"old_price"`
	Savings      *float64 `json:"savings"`
}

type PlaceOrderRequest struct {
	Items            []OrderItemRequest `json:"items" binding:"required,min=1"`
	Address          string             `json:"address" binding:"required"`
	EstimatedMinutes int                `json:"estimated_minutes"`
	TotalSavings     *float64           `json:"total_savings"`
	PaymentMethodID  string             `json:"payment_method_id"`
}

func orderItems(reqs []OrderItemRequest) []models.OrderItem {
	items := make([]models.OrderItem, len(reqs))
	for i, r := range reqs {
		items[i] = models.OrderItem{
			MenuItemID:   r.MenuItemID,
			RestaurantID: r.RestaurantID,
			Name:         r.Name,
			Quantity:     r.Quantity,
			Price:        r.Price,
			OldPrice:     r.OldPrice,
			Savings:      r.Savings,
		}
	}
	return items
}

// PlaceOrder creates a new order (customer only)
func (a *API) PlaceOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := a.Ledger.CreateOrder(userID, ledger.CreateOrderInput{
		Items:            orderItems(req.Items),
		Address:          req.Address,
		EstimatedMinutes: req.EstimatedMinutes,
		TotalSavings:     req.TotalSavings,
		PaymentMethodID:  req.PaymentMethodID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns the caller's orders, newest first, with lifetime savings
func (a *API) GetMyOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orders := a.Ledger.ListUserOrders(userID)
	c.JSON(http.StatusOK, gin.H{
		"count":            len(orders),
		"orders":           orders,
		"lifetime_savings": a.Ledger.LifetimeSavings(userID),
	})
}

// GetOrderDetail returns a single order with tracking info
func (a *API) GetOrderDetail(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, ok := a.Ledger.Order(orderID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	elapsed := time.Since(order.CreatedAt).Minutes()
	c.JSON(http.StatusOK, gin.H{
		"order":           order,
		"minutes_elapsed": int(elapsed),
	})
}

type EditOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required"`
}

// EditOrder replaces the item list while the order is still pending/confirmed
func (a *API) EditOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := a.Ledger.EditOrder(userID, orderID, orderItems(req.Items))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

// CancelOrder cancels an order (customer can cancel pending or confirmed)
func (a *API) CancelOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := a.Ledger.CancelOrder(userID, orderID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}

// DeleteOrder removes the order record entirely — destructive, not a cancel
func (a *API) DeleteOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	if err := a.Ledger.DeleteOrder(userID, orderID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "order_id": orderID})
}

// ── Payment methods ─────────────────────────────────────────────────────────

func paymentMethodView(m models.PaymentMethod) gin.H {
	return gin.H{
		"id":         m.ID,
		"brand":      m.Brand,
		"number":     m.MaskedNumber(),
		"holder":     m.Holder,
		"expiry":     m.Expiry,
		"is_default": m.IsDefault,
	}
}

type PaymentMethodRequest struct {
	Brand       string `json:"brand"`
	Number      string `json:"number"`
	Holder      string `json:"holder"`
	Expiry      string `json:"expiry"`
	MakeDefault bool   `json:"make_default"`
}

func methodsPaymentInput(req PaymentMethodRequest) methods.PaymentMethodInput {
	return methods.PaymentMethodInput{
		Brand:       req.Brand,
		Number:      req.Number,
		Holder:      req.Holder,
		Expiry:      req.Expiry,
		MakeDefault: req.MakeDefault,
	}
}

// ListPaymentMethods returns the caller's cards with masked numbers
func (a *API) ListPaymentMethods(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list := a.Payments.List(userID)
	views := make([]gin.H, len(list))
	for i, m := range list {
		views[i] = paymentMethodView(m)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "methods": views})
}

func (a *API) AddPaymentMethod(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := a.Payments.Add(userID, methodsPaymentInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Payment method added", "method": paymentMethodView(*m)})
}

func (a *API) UpdatePaymentMethod(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := a.Payments.Update(userID, c.Param("id"), methodsPaymentInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method updated", "method": paymentMethodView(*m)})
}

func (a *API) DeletePaymentMethod(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := a.Payments.Delete(userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}

func (a *API) SetDefaultPaymentMethod(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := a.Payments.SetDefault(userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default payment method set"})
}
