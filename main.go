package main

import (
	"log"

	"cofondo-backend/config"
	"cofondo-backend/database"
	"cofondo-backend/handlers"
	"cofondo-backend/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.Load()

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/nonce", handlers.RequestNonce)
		auth.POST("/login", handlers.Login)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// Profile
		api.GET("/users/me", handlers.GetProfile)
		api.PUT("/users/me", handlers.SaveContact)
		api.PUT("/users/me/fcm-token", handlers.UpdateFCMToken)

		// Wallets
		api.GET("/wallets/validate", handlers.ValidateWallet)

		// Groups
		api.POST("/groups", handlers.CreateGroup)
		api.GET("/groups", handlers.GetGroups)
		api.GET("/groups/:id", handlers.GetGroup)
		api.GET("/groups/:id/transactions", handlers.GetGroupTransactions)

		// Governance
		api.POST("/groups/:id/proposals/invite", handlers.CreateInviteProposal)
		api.POST("/groups/:id/proposals/fund", handlers.CreateFundProposal)
		api.GET("/groups/:id/proposals", handlers.GetGroupProposals)
		api.POST("/groups/:id/proposals/:pid/vote", handlers.CastVote)

		// Balances
		api.GET("/balances", handlers.GetBalances)

		// Activity
		api.GET("/activity", handlers.GetActivity)
		api.GET("/groups/:id/activity", handlers.GetGroupActivity)
	}

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)

	addr := "0.0.0.0:" + port
	log.Printf("🚀 Listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
