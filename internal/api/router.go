package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"curbside/market/internal/api/handlers"
	"curbside/market/internal/api/middleware"
	"curbside/market/internal/config"
)

// SetupRouter builds the public REST router with all middleware and routes
// attached.
func SetupRouter(cfg *config.Config, listingHandler *handlers.ListingHandler, messageHandler *handlers.MessageHandler) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestID())

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	router.Use(rateLimiter.Limit())

	v1 := router.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})
		v1.GET("/categories", handlers.Categories)
		v1.GET("/listings", listingHandler.Browse)
		v1.GET("/listing/:id", listingHandler.GetListingByID)
		v1.POST("/listing", listingHandler.CreateListing)
		v1.POST("/listing/:id/message", messageHandler.SendMessage)
	}

	return router
}
