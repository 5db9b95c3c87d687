package main

import (
	"net/http"
	"os"

	"mealmatch/catalog"
	"mealmatch/config"
	"mealmatch/handlers"
	"mealmatch/identity"
	"mealmatch/ledger"
	"mealmatch/methods"
	"mealmatch/routes"
	"mealmatch/store"
	"mealmatch/telem"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	config.Init()
	config.InitDB()

	kv := store.NewGormStore(config.DB)
	identitySvc := identity.NewService(kv)
	catalogSvc := catalog.NewService(kv, config.DB)
	payments := methods.NewPaymentRegistry(kv)
	payouts := methods.NewPayoutRegistry(kv)
	ledgerSvc := ledger.NewService(kv, catalogSvc, identitySvc, payouts)

	api := &handlers.API{
		Identity: identitySvc,
		Catalog:  catalogSvc,
		Ledger:   ledgerSvc,
		Payments: payments,
		Payouts:  payouts,
	}

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "mealmatch order ledger API",
			"version": "1.0.0",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(telem.Handler()))

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the mealmatch API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"customer", "owner"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r, api)

	// Start server
	port := config.GetEnv("PORT", "8080")
	logrus.Infof("server running on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
