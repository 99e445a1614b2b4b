package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/merchsys/storefront/internal/config"
	pkgAuth "github.com/merchsys/storefront/internal/pkg/auth"
	"github.com/merchsys/storefront/internal/server/http/handlers"
	"github.com/merchsys/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(
	facade handlers.StorefrontFacade,
	verifier handlers.WebhookVerifier,
	tokens pkgAuth.Strategy,
	admin handlers.CredentialVerifier,
	cfg *config.Config,
	logger *slog.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	checkoutHandler := handlers.NewCheckoutHandler(facade, cfg.SuccessRedirectURL, cfg.FailureRedirectURL)
	webhookHandler := handlers.NewWebhookHandler(facade, verifier, logger)
	cartHandler := handlers.NewCartHandler(facade, cfg.ShippingFee)
	adminHandler := handlers.NewAdminHandler(facade, admin, tokens)

	api := engine.Group("/api")

	// Gateway-facing triggers stay outside the tenant group: Paystack's
	// webhook POST and the browser redirect cannot carry X-Store-ID. They
	// carry their own authentication instead, the webhook a signature, the
	// callback and poll nothing but an opaque reference that is re-verified.
	api.POST("/webhooks/paystack", webhookHandler.Receive)
	api.GET("/checkout/callback", checkoutHandler.Callback)
	api.GET("/checkout/payments/:reference", checkoutHandler.Status)

	tenant := api.Group("")
	tenant.Use(middleware.TenantRequired())

	shop := tenant.Group("")
	shop.Use(middleware.ShopperIdentity(tokens))
	shop.GET("/cart", cartHandler.Show)
	shop.PUT("/cart/items", cartHandler.PutLine)
	shop.POST("/checkout", checkoutHandler.Initialize)

	tenant.POST("/admin/login", adminHandler.Login)

	adminGroup := tenant.Group("/admin")
	adminGroup.Use(middleware.AdminRequired(tokens))
	adminGroup.GET("/orders/:id", adminHandler.Order)
	adminGroup.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
	adminGroup.POST("/inventory/adjust", adminHandler.AdjustInventory)

	return engine
}
