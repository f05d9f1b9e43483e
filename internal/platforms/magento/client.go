package magento

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"product-gateway-service/internal/platforms"
)

// Client fetches products from the Magento / Adobe Commerce REST API. The
// identifier is used verbatim as a SKU; Magento's own endpoint resolves it,
// so there is no separate resolver step and no sub-resource fan-out.
type Client struct {
	http    *platforms.JSONClient
	baseURL string
	apiKey  string
}

// Options tunes the upstream HTTP client
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond int
}

// New creates a Magento connector for one request's credentials
func New(creds platforms.Credentials, opts Options) *Client {
	return &Client{
		http:    platforms.NewJSONClient(platforms.KindMagento, opts.Timeout, opts.RequestsPerSecond),
		baseURL: "https://" + creds.Host,
		apiKey:  creds.AccessToken,
	}
}

// Kind returns the platform kind
func (c *Client) Kind() platforms.Kind {
	return platforms.KindMagento
}

// Resolve fetches the product named by the SKU. The single upstream call
// is also the aggregation: Magento embeds pricing and media in the record.
func (c *Client) Resolve(ctx context.Context, id platforms.Identifier) (*platforms.ResolvedProduct, error) {
	if id.Empty() {
		return nil, platforms.InvalidInput(platforms.KindMagento, "missing product SKU")
	}

	var product map[string]interface{}
	reqURL := fmt.Sprintf("%s/rest/V1/products/%s", c.baseURL, url.PathEscape(string(id)))
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Content-Type":  "application/json",
	}
	if err := c.http.FetchJSON(ctx, reqURL, headers, &product); err != nil {
		apiErr := platforms.AsAPIError(err)
		if apiErr.Status == http.StatusNotFound {
			return nil, platforms.NotFound(platforms.KindMagento, "product "+string(id)+" not found")
		}
		return nil, err
	}

	return &platforms.ResolvedProduct{
		Platform:  platforms.KindMagento,
		ProductID: platforms.NumberString(product["id"]),
		Product:   product,
	}, nil
}

// Aggregate passes the resolved record through unchanged
func (c *Client) Aggregate(_ context.Context, resolved *platforms.ResolvedProduct) (platforms.AggregatedProduct, error) {
	return platforms.AggregatedProduct(resolved.Product), nil
}
