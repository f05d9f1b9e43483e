package salesforce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"product-gateway-service/internal/platforms"
)

const shopAPIVersion = "v20_4"

// expand pulls pricing, availability, images and variations into the base
// record so no secondary fetches are needed
const expandParams = "availability,images,prices,variations"

// Client fetches products from the Salesforce Commerce Cloud Shop API.
// Like Magento, the identifier is used verbatim and a single expanded call
// returns the complete record.
type Client struct {
	http     *platforms.JSONClient
	baseURL  string
	clientID string
}

// Options tunes the upstream HTTP client
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond int
}

// New creates a Salesforce Commerce Cloud connector for one request's credentials
func New(creds platforms.Credentials, opts Options) *Client {
	return &Client{
		http:     platforms.NewJSONClient(platforms.KindSalesforce, opts.Timeout, opts.RequestsPerSecond),
		baseURL:  "https://" + creds.Host,
		clientID: creds.ClientID,
	}
}

// Kind returns the platform kind
func (c *Client) Kind() platforms.Kind {
	return platforms.KindSalesforce
}

// Resolve fetches the product named by the identifier with query expansion
func (c *Client) Resolve(ctx context.Context, id platforms.Identifier) (*platforms.ResolvedProduct, error) {
	if id.Empty() {
		return nil, platforms.InvalidInput(platforms.KindSalesforce, "missing product identifier")
	}

	var product map[string]interface{}
	reqURL := fmt.Sprintf("%s/s/-/dw/shop/%s/products/%s?client_id=%s&expand=%s",
		c.baseURL, shopAPIVersion, url.PathEscape(string(id)), url.QueryEscape(c.clientID), expandParams)
	if err := c.http.FetchJSON(ctx, reqURL, map[string]string{"Content-Type": "application/json"}, &product); err != nil {
		apiErr := platforms.AsAPIError(err)
		if apiErr.Status == http.StatusNotFound {
			return nil, platforms.NotFound(platforms.KindSalesforce, "product "+string(id)+" not found")
		}
		return nil, err
	}

	return &platforms.ResolvedProduct{
		Platform:  platforms.KindSalesforce,
		ProductID: platforms.NumberString(product["id"]),
		Product:   product,
	}, nil
}

// Aggregate passes the resolved record through unchanged
func (c *Client) Aggregate(_ context.Context, resolved *platforms.ResolvedProduct) (platforms.AggregatedProduct, error) {
	return platforms.AggregatedProduct(resolved.Product), nil
}
