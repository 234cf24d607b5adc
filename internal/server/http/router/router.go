package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/atelier/internal/config"
	"github.com/polkiloo/atelier/internal/server/http/handlers"
	"github.com/polkiloo/atelier/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.WorkshopFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	engine.Use(middleware.Compression())

	authHandler := handlers.NewAuthHandler(facade)
	clientHandler := handlers.NewClientHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	invoiceHandler := handlers.NewInvoiceHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	accounts := api.Group("/accounts")
	accounts.POST("/register", authHandler.Register)
	accounts.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	authed.POST("/clients", clientHandler.Create)
	authed.GET("/clients", clientHandler.List)
	authed.GET("/clients/:id", clientHandler.Get)

	authed.POST("/collections", clientHandler.CreateCollection)
	authed.GET("/collections", clientHandler.ListCollections)
	authed.GET("/collections/:id", clientHandler.GetCollection)

	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.PATCH("/orders/:id", orderHandler.Update)
	authed.DELETE("/orders/:id", orderHandler.Delete)
	authed.GET("/orders/:id/balance", orderHandler.Balance)
	authed.POST("/orders/:id/reconcile", orderHandler.Reconcile)
	authed.GET("/orders/:id/history", orderHandler.History)
	authed.GET("/orders/:id/payments", paymentHandler.ListByOrder)

	authed.POST("/invoices/preview", invoiceHandler.Preview)
	authed.POST("/invoices", invoiceHandler.Create)
	authed.GET("/invoices", invoiceHandler.List)
	authed.GET("/invoices/:id", invoiceHandler.Get)
	authed.PATCH("/invoices/:id", invoiceHandler.Update)
	authed.DELETE("/invoices/:id", invoiceHandler.Delete)
	authed.POST("/invoices/:id/reconcile", invoiceHandler.Reconcile)

	authed.POST("/payments", paymentHandler.Record)
	authed.GET("/payments/:id", paymentHandler.Get)
	authed.POST("/payments/:id/confirm", paymentHandler.Confirm)

	return engine
}
