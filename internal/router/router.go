// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoplite-agent/internal/config"
	"shoplite-agent/internal/handlers"
	"shoplite-agent/internal/middleware"
	"shoplite-agent/internal/remote"
	"shoplite-agent/internal/services"
	"shoplite-agent/internal/session"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

func Initialize(st *store.Store, rs remote.Store, sess *session.Session, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	authService, err := services.NewAuthService(cfg, sess)
	if err != nil {
		return nil, err
	}
	invoiceService := services.NewInvoiceService(st)
	productService := services.NewProductService(st)
	syncService := services.NewSyncService(st, rs, sess)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, syncService)
	customerHandler := handlers.NewCustomerHandler(st)
	productHandler := handlers.NewProductHandler(st, productService)
	invoiceHandler := handlers.NewInvoiceHandler(st, invoiceService)
	categoryHandler := handlers.NewCategoryHandler(st)
	attributeHandler := handlers.NewAttributeHandler(st)
	settingsHandler := handlers.NewSettingsHandler(st)
	syncHandler := handlers.NewSyncHandler(syncService)
	dataHandler := handlers.NewDataHandler(st)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit(cfg.RateLimit))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit(cfg.RateLimit))
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Everything below operates on the local store and requires a
		// valid token.
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			customers := protected.Group("/customers")
			{
				customers.GET("", customerHandler.List)
				customers.GET("/:id", customerHandler.Get)
				customers.POST("", customerHandler.Create)
				customers.PUT("/:id", customerHandler.Update)
				customers.DELETE("/:id", customerHandler.Delete)
			}

			products := protected.Group("/products")
			{
				products.GET("", productHandler.List)
				products.GET("/:id", productHandler.Get)
				products.POST("", productHandler.Create)
				products.PUT("/:id", productHandler.Update)
				products.DELETE("/:id", productHandler.Delete)
				products.POST("/:id/variants/generate", productHandler.GenerateVariants)
			}

			invoices := protected.Group("/invoices")
			{
				invoices.GET("", invoiceHandler.List)
				invoices.GET("/:id", invoiceHandler.Get)
				invoices.POST("", invoiceHandler.Create)
				invoices.PUT("/:id", invoiceHandler.Update)
				invoices.DELETE("/:id", invoiceHandler.Delete)
			}

			categories := protected.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.GET("/:id", categoryHandler.Get)
				categories.POST("", categoryHandler.Create)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			attributes := protected.Group("/attributes")
			{
				attributes.GET("", attributeHandler.List)
				attributes.GET("/:id", attributeHandler.Get)
				attributes.POST("", attributeHandler.Create)
				attributes.PUT("/:id", attributeHandler.Update)
				attributes.DELETE("/:id", attributeHandler.Delete)
				attributes.POST("/:id/values", attributeHandler.AddValue)
			}

			settings := protected.Group("/settings")
			{
				settings.GET("", settingsHandler.Get)
				settings.PUT("", settingsHandler.Update)
			}

			sync := protected.Group("/sync")
			{
				sync.POST("", syncHandler.Trigger)
				sync.GET("/status", syncHandler.Status)
			}

			data := protected.Group("/data")
			{
				data.POST("/import", dataHandler.Import)
				data.GET("/export", dataHandler.Export)
			}
		}
	}

	return r, nil
}
