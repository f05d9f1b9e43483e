package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"product-gateway-service/internal/config"
	"product-gateway-service/internal/handlers"
	"product-gateway-service/internal/middleware"
	"product-gateway-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize gateway and handlers
	gateway := services.NewGateway(cfg, logger)
	productsHandler := handlers.NewProductsHandler(gateway, cfg, logger)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	router := setupRouter(cfg, logger, productsHandler, healthHandler)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithFields(logrus.Fields{
			"port": cfg.Port,
			"env":  cfg.Environment,
		}).Info("product gateway service starting")
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	logger.Info("product gateway service stopped")
}

// setupRouter configures the HTTP router
func setupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	productsHandler *handlers.ProductsHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	// Health check
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/shopify/product", productsHandler.GetShopifyProduct)
		v1.GET("/salesforce/product", productsHandler.GetSalesforceProduct)
		v1.GET("/products/:sku", productsHandler.GetMagentoProduct)
		v1.GET("/bigcommerce/products/:identifier", productsHandler.GetBigCommerceProduct)
	}

	return router
}
