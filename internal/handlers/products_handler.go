package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"product-gateway-service/internal/config"
	"product-gateway-service/internal/platforms"
)

// ProductGateway is the aggregation contract the handlers depend on
type ProductGateway interface {
	FetchProduct(ctx context.Context, creds platforms.Credentials, id platforms.Identifier) (platforms.AggregatedProduct, error)
	ListProducts(ctx context.Context, creds platforms.Credentials) ([]platforms.AggregatedProduct, error)
}

// ProductsHandler maps HTTP requests onto the gateway and gateway outcomes
// back onto HTTP envelopes
type ProductsHandler struct {
	gateway ProductGateway
	cfg     *config.Config
	logger  *logrus.Logger
}

// NewProductsHandler creates a new products handler
func NewProductsHandler(gateway ProductGateway, cfg *config.Config, logger *logrus.Logger) *ProductsHandler {
	return &ProductsHandler{gateway: gateway, cfg: cfg, logger: logger}
}

// GetShopifyProduct handles GET /api/v1/shopify/product.
// With productId it returns one aggregated product; without it, listing
// mode returns a bounded page. Both are wrapped in {status, data}.
func (h *ProductsHandler) GetShopifyProduct(c *gin.Context) {
	storeHash := c.Query("storeHash")
	accessToken := c.Query("accessToken")
	if storeHash == "" || accessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing storeHash or accessToken in query parameters"})
		return
	}

	creds := platforms.Credentials{
		Platform:    platforms.KindShopify,
		StoreHash:   storeHash,
		AccessToken: accessToken,
	}

	productID := c.Query("productId")
	if productID == "" {
		products, err := h.gateway.ListProducts(c.Request.Context(), creds)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": products})
		return
	}

	product, err := h.gateway.FetchProduct(c.Request.Context(), creds, platforms.Identifier(productID))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": product})
}

// GetSalesforceProduct handles GET /api/v1/salesforce/product and returns
// the bare expanded product record
func (h *ProductsHandler) GetSalesforceProduct(c *gin.Context) {
	host := c.Query("host")
	clientID := c.Query("clientId")
	if host == "" || clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing host or clientId in query parameters"})
		return
	}

	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing productId in query parameters"})
		return
	}

	creds := platforms.Credentials{
		Platform: platforms.KindSalesforce,
		Host:     host,
		ClientID: clientID,
	}

	product, err := h.gateway.FetchProduct(c.Request.Context(), creds, platforms.Identifier(productID))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetMagentoProduct handles GET /api/v1/products/:sku, a Magento REST
// passthrough. api_key and domain may fall back to the single-tenant
// configuration when the deployment provides one.
func (h *ProductsHandler) GetMagentoProduct(c *gin.Context) {
	apiKey := c.Query("api_key")
	if apiKey == "" {
		apiKey = h.cfg.MagentoAPIKey
	}
	domain := c.Query("domain")
	if domain == "" {
		domain = h.cfg.MagentoDomain
	}
	if apiKey == "" || domain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing api_key or domain in query parameters"})
		return
	}

	creds := platforms.Credentials{
		Platform:    platforms.KindMagento,
		Host:        domain,
		AccessToken: apiKey,
	}

	product, err := h.gateway.FetchProduct(c.Request.Context(), creds, platforms.Identifier(c.Param("sku")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetBigCommerceProduct handles GET /api/v1/bigcommerce/products/:identifier
// and returns the product augmented with variants, images, custom fields,
// brand and categories
func (h *ProductsHandler) GetBigCommerceProduct(c *gin.Context) {
	apiToken := c.Query("api_token")
	storeHash := c.Query("store_hash")
	if apiToken == "" || storeHash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing api_token or store_hash in query parameters"})
		return
	}

	creds := platforms.Credentials{
		Platform:    platforms.KindBigCommerce,
		StoreHash:   storeHash,
		AccessToken: apiToken,
	}

	product, err := h.gateway.FetchProduct(c.Request.Context(), creds, platforms.Identifier(c.Param("identifier")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// writeError maps a gateway outcome onto the HTTP error envelope. Upstream
// failures forward the upstream's own status code instead of collapsing
// into a 500.
func (h *ProductsHandler) writeError(c *gin.Context, err error) {
	apiErr := platforms.AsAPIError(err)

	h.logger.WithFields(logrus.Fields{
		"platform": apiErr.Platform,
		"kind":     apiErr.Kind,
		"status":   apiErr.Status,
	}).Error(apiErr.Message)

	switch apiErr.Kind {
	case platforms.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": apiErr.Message})
	case platforms.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": apiErr.Message})
	case platforms.ErrUpstream:
		c.JSON(apiErr.HTTPStatus(), gin.H{
			"error":   "upstream API error",
			"status":  apiErr.Status,
			"message": apiErr.Message,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": apiErr.Message,
		})
	}
}
