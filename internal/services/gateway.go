package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"product-gateway-service/internal/config"
	"product-gateway-service/internal/platforms"
	"product-gateway-service/internal/platforms/bigcommerce"
	"product-gateway-service/internal/platforms/magento"
	"product-gateway-service/internal/platforms/salesforce"
	"product-gateway-service/internal/platforms/shopify"
)

// Gateway runs the two-stage resolve/aggregate contract against whichever
// platform a request names. Connectors are built per request from the
// caller's credentials and discarded with the request; the gateway itself
// holds no per-request state.
type Gateway struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewGateway creates the gateway service
func NewGateway(cfg *config.Config, logger *logrus.Logger) *Gateway {
	return &Gateway{cfg: cfg, logger: logger}
}

// connector builds a platform connector for one request's credentials
func (g *Gateway) connector(creds platforms.Credentials) (platforms.Connector, error) {
	switch creds.Platform {
	case platforms.KindShopify:
		return g.shopifyConnector(creds), nil
	case platforms.KindBigCommerce:
		return bigcommerce.New(creds, bigcommerce.Options{
			Timeout:           g.cfg.UpstreamTimeout,
			RequestsPerSecond: g.cfg.RateLimit,
			FanoutLimit:       g.cfg.FanoutLimit,
			Logger:            g.logger,
		}), nil
	case platforms.KindMagento:
		return magento.New(creds, magento.Options{
			Timeout:           g.cfg.UpstreamTimeout,
			RequestsPerSecond: g.cfg.RateLimit,
		}), nil
	case platforms.KindSalesforce:
		return salesforce.New(creds, salesforce.Options{
			Timeout:           g.cfg.UpstreamTimeout,
			RequestsPerSecond: g.cfg.RateLimit,
		}), nil
	default:
		return nil, platforms.InvalidInput(creds.Platform, fmt.Sprintf("unsupported platform %q", creds.Platform))
	}
}

func (g *Gateway) shopifyConnector(creds platforms.Credentials) *shopify.Client {
	return shopify.New(creds, shopify.Options{
		Timeout:           g.cfg.UpstreamTimeout,
		RequestsPerSecond: g.cfg.RateLimit,
		PageSize:          g.cfg.ListingPageSize,
		FanoutLimit:       g.cfg.FanoutLimit,
		Logger:            g.logger,
	})
}

// FetchProduct resolves an identifier to its canonical product and merges
// the platform's sub-resources into one document. Resolution failures are
// fatal; sub-resource failures have already degraded inside Aggregate.
func (g *Gateway) FetchProduct(ctx context.Context, creds platforms.Credentials, id platforms.Identifier) (platforms.AggregatedProduct, error) {
	connector, err := g.connector(creds)
	if err != nil {
		return nil, err
	}

	resolved, err := connector.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{
		"platform":   creds.Platform,
		"product_id": resolved.ProductID,
	}).Debug("identifier resolved")

	return connector.Aggregate(ctx, resolved)
}

// ListProducts fetches a bounded page of products with per-item
// metafields. Listing mode exists only on the Shopify path.
func (g *Gateway) ListProducts(ctx context.Context, creds platforms.Credentials) ([]platforms.AggregatedProduct, error) {
	if creds.Platform != platforms.KindShopify {
		return nil, platforms.InvalidInput(creds.Platform, "product listing is only supported for shopify")
	}
	return g.shopifyConnector(creds).List(ctx)
}
