package api

import (
	"agahi-backend/internal/auth"
	"agahi-backend/internal/config"
	"agahi-backend/internal/messaging"
	"agahi-backend/internal/middleware"
	"agahi-backend/internal/otp"
	"agahi-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, stores *storage.Stores, codes otp.Store, cfg *config.Config) {
	jwtManager := auth.NewJWTManager(cfg)
	server := NewServer(stores, codes, jwtManager, cfg)
	chatHandler := NewChatHandler(messaging.NewService(stores.Messages, stores.Users, stores.Ads))
	sendLimiter := middleware.NewIPRateLimiter(cfg.Server.SendRatePerMin, 10)

	router.Use(middleware.CORSSpecific(cfg.GetCORSOrigins()))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "agahi-backend",
		})
	})

	api := router.Group("/api")
	requireAuth := middleware.AuthMiddleware(jwtManager)
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", server.Register)
			authGroup.POST("/login", server.Login)
			authGroup.POST("/logout", server.Logout)
			authGroup.GET("/me", requireAuth, server.Me)
		}

		ads := api.Group("/ads")
		{
			ads.GET("/list", server.ListAds)
			ads.GET("/my", requireAuth, server.MyAds)
			ads.POST("/create", requireAuth, server.CreateAd)
			ads.GET("/:id", server.GetAd)
		}

		api.GET("/users/get-by-phone", server.GetUserByPhone)

		messages := api.Group("/messages")
		messages.Use(requireAuth)
		{
			messages.POST("/send", middleware.RateLimitMiddleware(sendLimiter), chatHandler.SendMessage)
			messages.GET("/conversation", chatHandler.GetConversation)
			messages.GET("/conversations", chatHandler.GetConversations)
			messages.GET("/list", chatHandler.ListThreads)
			messages.GET("/unread-count", chatHandler.GetUnreadCount)
		}
	}
}
