package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"product-gateway-service/internal/platforms"
)

const apiVersion = "2024-01"

// Client resolves and aggregates products via the Shopify Admin API
type Client struct {
	http        *platforms.JSONClient
	baseURL     string
	accessToken string
	pageSize    int
	fanoutLimit int
	logger      *logrus.Logger
}

// Options tunes listing page size and secondary-fetch concurrency
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond int
	PageSize          int
	FanoutLimit       int
	Logger            *logrus.Logger
}

// New creates a Shopify connector for one request's credentials
func New(creds platforms.Credentials, opts Options) *Client {
	if opts.PageSize <= 0 {
		opts.PageSize = 1
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Client{
		http:        platforms.NewJSONClient(platforms.KindShopify, opts.Timeout, opts.RequestsPerSecond),
		baseURL:     fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", creds.StoreHash, apiVersion),
		accessToken: creds.AccessToken,
		pageSize:    opts.PageSize,
		fanoutLimit: opts.FanoutLimit,
		logger:      opts.Logger,
	}
}

// Kind returns the platform kind
func (c *Client) Kind() platforms.Kind {
	return platforms.KindShopify
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"X-Shopify-Access-Token": c.accessToken,
		"Content-Type":           "application/json",
	}
}

// canonicalCandidate decomposes a composite global ID. A 4-segment
// underscore token (shopify_<region>_<productId>_<variantId>) yields the
// third segment; any other segment count yields the first.
func canonicalCandidate(raw string) string {
	if !strings.Contains(raw, "_") {
		return raw
	}
	segments := strings.Split(raw, "_")
	if len(segments) == 4 {
		return segments[2]
	}
	return segments[0]
}

// Resolve turns an incoming identifier into a canonical numeric product ID
// and fetches the product it names. A numeric candidate may actually be a
// variant ID; when the variant lookup succeeds, its parent product ID
// replaces the candidate.
func (c *Client) Resolve(ctx context.Context, id platforms.Identifier) (*platforms.ResolvedProduct, error) {
	if id.Empty() {
		return nil, platforms.InvalidInput(platforms.KindShopify, "missing product identifier")
	}

	candidate := canonicalCandidate(string(id))
	if candidate == "" {
		return nil, platforms.InvalidInput(platforms.KindShopify, "no product ID in identifier "+string(id))
	}

	if platforms.Identifier(candidate).Numeric() {
		if parentID, ok := c.lookupVariantParent(ctx, candidate); ok {
			candidate = parentID
		}
	}

	var resp struct {
		Product map[string]interface{} `json:"product"`
	}
	url := fmt.Sprintf("%s/products/%s.json", c.baseURL, candidate)
	if err := c.http.FetchJSON(ctx, url, c.headers(), &resp); err != nil {
		apiErr := platforms.AsAPIError(err)
		if apiErr.Status == http.StatusNotFound {
			return nil, platforms.NotFound(platforms.KindShopify, "product "+candidate+" not found")
		}
		return nil, err
	}

	return &platforms.ResolvedProduct{
		Platform:  platforms.KindShopify,
		ProductID: candidate,
		Product:   resp.Product,
	}, nil
}

// lookupVariantParent checks whether the candidate names a variant and
// returns its parent product ID. A miss is not an error.
func (c *Client) lookupVariantParent(ctx context.Context, candidate string) (string, bool) {
	var resp struct {
		Variant struct {
			ProductID int64 `json:"product_id"`
		} `json:"variant"`
	}
	url := fmt.Sprintf("%s/variants/%s.json", c.baseURL, candidate)
	if err := c.http.FetchJSON(ctx, url, c.headers(), &resp); err != nil {
		return "", false
	}
	if resp.Variant.ProductID == 0 {
		return "", false
	}
	return strconv.FormatInt(resp.Variant.ProductID, 10), true
}

// Aggregate attaches the product's metafields. The metafield fetch is
// best-effort: failure degrades to an empty list.
func (c *Client) Aggregate(ctx context.Context, resolved *platforms.ResolvedProduct) (platforms.AggregatedProduct, error) {
	return platforms.AggregatedProduct{
		"product":    resolved.Product,
		"metafields": c.fetchMetafields(ctx, resolved.ProductID),
	}, nil
}

// List fetches a bounded page of products and attaches each product's
// metafields, fetched in parallel with independent degradation. Output
// order matches the upstream listing order.
func (c *Client) List(ctx context.Context) ([]platforms.AggregatedProduct, error) {
	var resp struct {
		Products []map[string]interface{} `json:"products"`
	}
	url := fmt.Sprintf("%s/products.json?limit=%d", c.baseURL, c.pageSize)
	if err := c.http.FetchJSON(ctx, url, c.headers(), &resp); err != nil {
		return nil, err
	}

	results := make([]platforms.AggregatedProduct, len(resp.Products))
	platforms.Each(ctx, c.fanoutLimit, len(resp.Products), func(ctx context.Context, i int) {
		product := resp.Products[i]
		variants, ok := product["variants"]
		if !ok || variants == nil {
			variants = []interface{}{}
		}
		results[i] = platforms.AggregatedProduct{
			"product":    product,
			"variants":   variants,
			"metafields": c.fetchMetafields(ctx, platforms.NumberString(product["id"])),
		}
	})

	return results, nil
}

func (c *Client) fetchMetafields(ctx context.Context, productID string) []interface{} {
	var resp struct {
		Metafields []interface{} `json:"metafields"`
	}
	url := fmt.Sprintf("%s/products/%s/metafields.json", c.baseURL, productID)
	if err := c.http.FetchJSON(ctx, url, c.headers(), &resp); err != nil {
		c.logger.WithFields(logrus.Fields{
			"platform":   platforms.KindShopify,
			"product_id": productID,
		}).WithError(err).Warn("metafield fetch failed, returning empty list")
		return []interface{}{}
	}
	if resp.Metafields == nil {
		return []interface{}{}
	}
	return resp.Metafields
}
