package handlers

import (
	"net/http"

	"mealmatch/catalog"
	"mealmatch/statemachine"

	"github.com/gin-gonic/gin"
)

// ListRestaurants serves the public restaurant search (relational read path)
func (a *API) ListRestaurants(c *gin.Context) {
	restaurants := a.Catalog.Search(catalog.SearchFilter{
		Query:      c.Query("q"),
		Area:       c.Query("area"),
		Cuisine:    c.Query("cuisine"),
		PriceLevel: c.Query("price"),
	})
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetRestaurant returns a single restaurant
func (a *API) GetRestaurant(c *gin.Context) {
	restaurant, ok := a.Catalog.RestaurantByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns the menu for a specific restaurant (public)
func (a *API) GetMenu(c *gin.Context) {
	restaurant, ok := a.Catalog.RestaurantByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	items := a.Catalog.Menu(restaurant.ID)
	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant.Name,
		"count":      len(items),
		"menu":       items,
	})
}

// GetStateMachineInfo returns the full order state machine for informational purposes
func (a *API) GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{"delivered", "cancelled"},
		"description":     "Order lifecycle state machine",
	})
}
