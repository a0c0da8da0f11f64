package api

import (
	"net/http"

	"marketplace/server/config"
	"marketplace/server/internal/auth"
	"marketplace/server/internal/database"
	"marketplace/server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the gin engine with middleware and every API route
func NewRouter(db *database.Database, notifier Notifier, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	handler := NewHandler(db, notifier, cfg, logger)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), requestID(), requestLogger(handler.logger), corsMiddleware(cfg.Server.AllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	SetupRoutes(router, handler, cfg)
	return router
}

func SetupRoutes(router *gin.Engine, handler *Handler, cfg *config.Config) {
	limiter := NewRateLimiter(cfg.Server.SearchRateLimit, cfg.Server.SearchRateBurst)
	session := auth.RequireSession(cfg.Auth.JWTSecret)

	api := router.Group("/api")
	{
		listings := api.Group("/listings", limiter.Limit())
		listings.GET("", handler.SearchListings)
		listings.GET("/map", handler.SearchListingsMap)
		listings.GET("/:id", handler.GetListing)
	}

	admin := api.Group("/admin", session, auth.RequireRole(models.RoleAdmin))
	{
		admin.GET("/listings", handler.AdminListings)
		admin.GET("/bookings", handler.AdminBookings)
		admin.GET("/users", handler.AdminUsers)
	}

	host := api.Group("/host", session)
	{
		host.GET("/bookings", handler.HostBookings)
		host.PATCH("/bookings/:id", handler.UpdateHostBooking)
	}

	api.GET("/notifications", session, handler.Notifications)
}
