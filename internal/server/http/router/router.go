package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/collinsmw/boutique/internal/server/http/handlers"
	"github.com/collinsmw/boutique/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ShopFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	api := engine.Group("/api")

	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	orders := api.Group("/orders")
	// The webhook authenticates by signature, not session.
	orders.POST("/payment-webhook", paymentHandler.Webhook)

	ordersAuth := orders.Group("")
	ordersAuth.Use(middleware.AuthRequired(facade))
	ordersAuth.POST("", orderHandler.Create)
	ordersAuth.GET("/:id", orderHandler.Get)
	ordersAuth.PUT("/:id/payment-contact", orderHandler.UpdatePaymentContact)
	ordersAuth.POST("/:id/payment-init", paymentHandler.Init)

	return engine
}
