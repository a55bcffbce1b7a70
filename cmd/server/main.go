package main

import (
	"log"

	"tradechallenge/internal/config"
	"tradechallenge/internal/currency"
	dao "tradechallenge/internal/dao/challenge"
	"tradechallenge/internal/database"
	trading "tradechallenge/internal/engines/trading"
	"tradechallenge/internal/handlers"
	websocketHandlers "tradechallenge/internal/handlers/websocket"
	"tradechallenge/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Trade Challenge API
// @version 1.0
// @description Funded-trader challenge API: plan purchase, trade lifecycle, risk rule evaluation and market quotes
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run database migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Quote cache is optional; without REDIS_ADDR quotes hit upstreams directly
	var quoteCache *redis.Client
	if cfg.RedisAddr != "" {
		quoteCache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware for development
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	db := database.GetDB()

	// Initialize DAOs
	challengeDAO := dao.NewChallengeDAO(db)
	tradeDAO := dao.NewTradeDAO(db)
	paymentDAO := dao.NewPaymentDAO(db)

	// Initialize market data services
	binanceService := services.NewBinanceService()
	bourseService := services.NewBourseService()
	marketService := services.NewMarketDataService(binanceService, bourseService, quoteCache)

	converter := currency.NewDefaultConverter()

	// WebSocket hub doubles as the trade engine's event broadcaster
	wsHandler := websocketHandlers.NewWebSocketHandler()
	wsHandler.SetQuoteHandler(websocketHandlers.NewQuoteEventHandler(marketService))

	// Initialize engine and services
	tradeEngine := trading.NewTradeEngine(challengeDAO, tradeDAO, converter, wsHandler.GetHub(), db, cfg.AutoEnforceRules)
	tradeService := services.NewTradeService(tradeEngine, tradeDAO, marketService, converter)
	challengeService := services.NewChallengeService(challengeDAO, paymentDAO, db)
	leaderboardService := services.NewLeaderboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	marketHandler := handlers.NewMarketHandler(marketService)
	challengeHandler := handlers.NewChallengeHandler(challengeService, tradeService)
	tradeHandler := handlers.NewTradeHandler(tradeService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	adminHandler := handlers.NewAdminHandler(challengeService)

	// Stream quote ticks for every supported instrument
	var streamSymbols []string
	for _, category := range marketService.SupportedSymbols() {
		streamSymbols = append(streamSymbols, category.Symbols...)
	}
	streamer := websocketHandlers.NewQuoteStreamer(marketService, wsHandler.GetHub(), streamSymbols, 0)
	streamer.Start()

	// Health check endpoint
	r.GET("/health", healthHandler.Health)

	// Swagger endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WebSocket endpoint
	r.GET("/ws", wsHandler.HandleWebSocket)

	// API routes group
	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandler.Health)

		// Plan catalog and challenge endpoints
		api.GET("/plans", challengeHandler.GetPlans)
		challenges := api.Group("/challenges")
		{
			challenges.POST("", challengeHandler.PurchasePlan)
			challenges.GET("", challengeHandler.GetChallenges)
			challenges.GET("/active", challengeHandler.GetActiveChallenge)
			challenges.GET("/:id", challengeHandler.GetChallengeState)
			challenges.GET("/:id/trades", tradeHandler.GetChallengeTrades)
			challenges.GET("/:id/unrealized-pnl", challengeHandler.GetUnrealizedPnL)
		}

		// Trade endpoints
		trades := api.Group("/trades")
		{
			trades.POST("", tradeHandler.OpenTrade)
			trades.GET("", tradeHandler.GetTrades)
			trades.POST("/:id/close", tradeHandler.CloseTrade)
		}

		// Market data endpoints
		market := api.Group("/market")
		{
			market.GET("/quotes", marketHandler.GetQuotes)
			market.GET("/quotes/:symbol", marketHandler.GetQuote)
			market.GET("/symbols", marketHandler.GetSupportedSymbols)
		}

		// Payment history endpoint
		api.GET("/payments", challengeHandler.GetPayments)

		// Leaderboard endpoint
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		// Operator endpoints
		admin := api.Group("/admin")
		{
			admin.PUT("/challenges/:id/status", adminHandler.UpdateChallengeStatus)
			admin.POST("/challenges/:id/rollover", adminHandler.RolloverDay)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
