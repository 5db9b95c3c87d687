package handlers

import (
	"net/http"
	"strconv"

	"mealmatch/catalog"
	"mealmatch/methods"
	"mealmatch/middleware"
	"mealmatch/models"
	"mealmatch/statemachine"

	"github.com/gin-gonic/gin"
)

// ── Restaurant management ───────────────────────────────────────────────────

type RestaurantRequest struct {
	Name       string `json:"name"`
	Area       string `json:"area"`
	Cuisine    string `json:"cuisine"`
	PriceLevel string `json:"price_level"`
	Halal      *bool  `json:"halal"`
	ImageURL   string `json:"image_url"`
	Link       string `json:"link"`
}

func restaurantInput(req RestaurantRequest) catalog.RestaurantInput {
	return catalog.RestaurantInput{
		Name:       req.Name,
		Area:       req.Area,
		Cuisine:    req.Cuisine,
		PriceLevel: req.PriceLevel,
		Halal:      req.Halal,
		ImageURL:   req.ImageURL,
		Link:       req.Link,
	}
}

// CreateRestaurant lets an owner list a new restaurant
func (a *API) CreateRestaurant(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	restaurant, err := a.Catalog.CreateRestaurant(ownerID, restaurantInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

// GetMyRestaurants lists all restaurants owned by the caller
func (a *API) GetMyRestaurants(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	restaurants := a.Catalog.ListOwnerRestaurants(ownerID)
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// UpdateRestaurant updates restaurant details (owner only)
func (a *API) UpdateRestaurant(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	restaurant, err := a.Catalog.UpdateRestaurant(ownerID, c.Param("id"), restaurantInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// DeleteRestaurant removes a restaurant and its menu. Past orders keep their
// snapshots.
func (a *API) DeleteRestaurant(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	if err := a.Catalog.DeleteRestaurant(ownerID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}

// ── Menu management ─────────────────────────────────────────────────────────

type MenuItemRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	OldPrice float64 `json:"old_price"`
	ImageURL string  `json:"image_url"`
}

func menuItemInput(req MenuItemRequest) catalog.MenuItemInput {
	return catalog.MenuItemInput{
		Name:     req.Name,
		Price:    req.Price,
		OldPrice: req.OldPrice,
		ImageURL: req.ImageURL,
	}
}

// AddMenuItem adds a new item to one of the owner's restaurants
func (a *API) AddMenuItem(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := a.Catalog.AddMenuItem(ownerID, c.Param("id"), menuItemInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem updates a menu item (only by the owner)
func (a *API) UpdateMenuItem(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := a.Catalog.UpdateMenuItem(ownerID, c.Param("itemId"), menuItemInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes a menu item
func (a *API) DeleteMenuItem(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	if err := a.Catalog.DeleteMenuItem(ownerID, c.Param("itemId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// ── Orders & earnings ───────────────────────────────────────────────────────

// GetOwnerOrders returns every order that credited the owner, with a status
// summary for the dashboard
func (a *API) GetOwnerOrders(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	orders := a.Ledger.ListOwnerOrders(ownerID)

	if status := c.Query("status"); status != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if string(o.Status) == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus handles the owner's state transitions
func (a *API) UpdateOrderStatus(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
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
	if _, credited := order.OwnerPayments[ownerID]; !credited {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to your restaurants"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prevStatus := order.Status
	updated, err := a.Ledger.UpdateStatus(orderID, req.Status)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    prevStatus,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(prevStatus),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        updated.ID,
		"previous_status": string(prevStatus),
		"current_status":  string(updated.Status),
	})
}

// GetAccount returns the owner's balance and transaction log
func (a *API) GetAccount(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	account := a.Ledger.Account(ownerID)
	c.JSON(http.StatusOK, gin.H{
		"balance":      account.Balance,
		"transactions": account.Transactions,
	})
}

type WithdrawRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// Withdraw debits the owner balance against the default payout method
func (a *API) Withdraw(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn, err := a.Ledger.Withdraw(ownerID, req.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Withdrawal requested. Funds arrive in 2-3 business days.",
		"transaction": txn,
		"balance":     a.Ledger.Balance(ownerID),
	})
}

// ── Payout methods ──────────────────────────────────────────────────────────

func payoutMethodView(m models.PayoutMethod) gin.H {
	return gin.H{
		"id":             m.ID,
		"type":           m.Type,
		"account_number": m.MaskedNumber(),
		"holder":         m.Holder,
		"is_default":     m.IsDefault,
	}
}

type PayoutMethodRequest struct {
	Type          string `json:"type"`
	AccountNumber string `json:"account_number"`
	Holder        string `json:"holder"`
	MakeDefault   bool   `json:"make_default"`
}

func payoutInput(req PayoutMethodRequest) methods.PayoutMethodInput {
	return methods.PayoutMethodInput{
		Type:          req.Type,
		AccountNumber: req.AccountNumber,
		Holder:        req.Holder,
		MakeDefault:   req.MakeDefault,
	}
}

func (a *API) ListPayoutMethods(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	list := a.Payouts.List(ownerID)
	views := make([]gin.H, len(list))
	for i, m := range list {
		views[i] = payoutMethodView(m)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "methods": views})
}

func (a *API) AddPayoutMethod(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req PayoutMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := a.Payouts.Add(ownerID, payoutInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Payout method added", "method": payoutMethodView(*m)})
}

func (a *API) UpdatePayoutMethod(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req PayoutMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := a.Payouts.Update(ownerID, c.Param("id"), payoutInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payout method updated", "method": payoutMethodView(*m)})
}

func (a *API) DeletePayoutMethod(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	if err := a.Payouts.Delete(ownerID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payout method deleted"})
}

func (a *API) SetDefaultPayoutMethod(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	if err := a.Payouts.SetDefault(ownerID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default payout method set"})
}
