package bigcommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"product-gateway-service/internal/platforms"
)

// Client resolves and aggregates products via the BigCommerce Catalog API
type Client struct {
	http        *platforms.JSONClient
	baseURL     string
	apiToken    string
	fanoutLimit int
	logger      *logrus.Logger
}

// Options tunes upstream timeouts and secondary-fetch concurrency
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond int
	FanoutLimit       int
	Logger            *logrus.Logger
}

// New creates a BigCommerce connector for one request's credentials
func New(creds platforms.Credentials, opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Client{
		http:        platforms.NewJSONClient(platforms.KindBigCommerce, opts.Timeout, opts.RequestsPerSecond),
		baseURL:     fmt.Sprintf("https://api.bigcommerce.com/stores/%s/v3", creds.StoreHash),
		apiToken:    creds.AccessToken,
		fanoutLimit: opts.FanoutLimit,
		logger:      opts.Logger,
	}
}

// Kind returns the platform kind
func (c *Client) Kind() platforms.Kind {
	return platforms.KindBigCommerce
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"X-Auth-Token": c.apiToken,
		"Content-Type": "application/json",
	}
}

type listResponse struct {
	Data []map[string]interface{} `json:"data"`
}

type itemResponse struct {
	Data map[string]interface{} `json:"data"`
}

// Resolve turns an identifier into a numeric product ID. Purely numeric
// identifiers are product IDs and trigger no lookup calls; anything else
// is treated as a SKU, matched first against products and then against
// variants (whose product_id wins).
func (c *Client) Resolve(ctx context.Context, id platforms.Identifier) (*platforms.ResolvedProduct, error) {
	if id.Empty() {
		return nil, platforms.InvalidInput(platforms.KindBigCommerce, "missing product identifier")
	}

	productID := string(id)
	if !id.Numeric() {
		resolved, err := c.resolveSKU(ctx, string(id))
		if err != nil {
			return nil, err
		}
		productID = resolved
	}

	var resp itemResponse
	reqURL := fmt.Sprintf("%s/catalog/products/%s", c.baseURL, productID)
	if err := c.http.FetchJSON(ctx, reqURL, c.headers(), &resp); err != nil {
		apiErr := platforms.AsAPIError(err)
		if apiErr.Status == http.StatusNotFound {
			return nil, platforms.NotFound(platforms.KindBigCommerce, "product "+productID+" not found")
		}
		return nil, err
	}

	return &platforms.ResolvedProduct{
		Platform:  platforms.KindBigCommerce,
		ProductID: productID,
		Product:   resp.Data,
	}, nil
}

func (c *Client) resolveSKU(ctx context.Context, sku string) (string, error) {
	var products listResponse
	reqURL := fmt.Sprintf("%s/catalog/products?sku=%s", c.baseURL, url.QueryEscape(sku))
	if err := c.http.FetchJSON(ctx, reqURL, c.headers(), &products); err != nil {
		return "", err
	}
	if len(products.Data) > 0 {
		return platforms.NumberString(products.Data[0]["id"]), nil
	}

	var variants listResponse
	reqURL = fmt.Sprintf("%s/catalog/variants?sku=%s", c.baseURL, url.QueryEscape(sku))
	if err := c.http.FetchJSON(ctx, reqURL, c.headers(), &variants); err != nil {
		return "", err
	}
	if len(variants.Data) > 0 {
		return platforms.NumberString(variants.Data[0]["product_id"]), nil
	}

	return "", platforms.NotFound(platforms.KindBigCommerce, "no product or variant matches SKU "+sku)
}

// Aggregate augments the base product with variants, images and custom
// fields fetched as a scatter/gather, then brand and categories, which
// depend on fields inside the base payload and run after the gather.
// Every sub-resource is best-effort: arrays default to empty, brand to nil.
func (c *Client) Aggregate(ctx context.Context, resolved *platforms.ResolvedProduct) (platforms.AggregatedProduct, error) {
	merged := platforms.AggregatedProduct{}
	for k, v := range resolved.Product {
		merged[k] = v
	}

	subResources := []string{"variants", "images", "custom-fields"}
	gathered := make([][]interface{}, len(subResources))
	platforms.Each(ctx, c.fanoutLimit, len(subResources), func(ctx context.Context, i int) {
		gathered[i] = c.fetchList(ctx, fmt.Sprintf("%s/catalog/products/%s/%s", c.baseURL, resolved.ProductID, subResources[i]))
	})
	merged["variants"] = gathered[0]
	merged["images"] = gathered[1]
	merged["custom_fields"] = gathered[2]

	merged["brand"] = c.fetchBrand(ctx, resolved.Product)
	merged["categories"] = c.fetchCategories(ctx, resolved.Product)

	return merged, nil
}

// fetchList fetches a collection sub-resource, degrading to an empty list
func (c *Client) fetchList(ctx context.Context, reqURL string) []interface{} {
	var resp struct {
		Data []interface{} `json:"data"`
	}
	if err := c.http.FetchJSON(ctx, reqURL, c.headers(), &resp); err != nil {
		c.logger.WithField("url", reqURL).WithError(err).Warn("sub-resource fetch failed, returning empty list")
		return []interface{}{}
	}
	if resp.Data == nil {
		return []interface{}{}
	}
	return resp.Data
}

// fetchBrand fetches the product's brand when brand_id is set
func (c *Client) fetchBrand(ctx context.Context, product map[string]interface{}) interface{} {
	brandID := platforms.NumberString(product["brand_id"])
	if brandID == "" || brandID == "0" {
		return nil
	}

	var resp itemResponse
	reqURL := fmt.Sprintf("%s/catalog/brands/%s", c.baseURL, brandID)
	if err := c.http.FetchJSON(ctx, reqURL, c.headers(), &resp); err != nil {
		c.logger.WithField("brand_id", brandID).WithError(err).Warn("brand fetch failed, returning null")
		return nil
	}
	if resp.Data == nil {
		return nil
	}
	return resp.Data
}

// fetchCategories fetches one category per ID listed on the product,
// filtering out any that fail or come back empty
func (c *Client) fetchCategories(ctx context.Context, product map[string]interface{}) []interface{} {
	ids, ok := product["categories"].([]interface{})
	if !ok || len(ids) == 0 {
		return []interface{}{}
	}

	fetched := make([]map[string]interface{}, len(ids))
	platforms.Each(ctx, c.fanoutLimit, len(ids), func(ctx context.Context, i int) {
		categoryID := platforms.NumberString(ids[i])
		if categoryID == "" {
			return
		}
		var resp itemResponse
		reqURL := fmt.Sprintf("%s/catalog/categories/%s", c.baseURL, categoryID)
		if err := c.http.FetchJSON(ctx, reqURL, c.headers(), &resp); err != nil {
			c.logger.WithField("category_id", categoryID).WithError(err).Warn("category fetch failed, skipping")
			return
		}
		fetched[i] = resp.Data
	})

	categories := make([]interface{}, 0, len(ids))
	for _, category := range fetched {
		if category != nil {
			categories = append(categories, category)
		}
	}
	return categories
}
