package platforms

import (
	"context"
	"regexp"
	"strconv"
)

// Kind identifies a supported e-commerce platform
type Kind string

const (
	KindShopify     Kind = "shopify"
	KindBigCommerce Kind = "bigcommerce"
	KindMagento     Kind = "magento"
	KindSalesforce  Kind = "salesforce"
)

// Credentials carries caller-supplied upstream credentials for one request.
// Never stored, never shared across requests.
type Credentials struct {
	Platform    Kind
	StoreHash   string // Shopify store name / BigCommerce store hash
	Host        string // Magento domain / Salesforce Commerce Cloud host
	AccessToken string // Shopify access token / BigCommerce API token / Magento API key
	ClientID    string // Salesforce Commerce Cloud client ID
}

// Identifier is a loosely-specified incoming product identifier: a numeric
// ID, a SKU, or a composite underscore-delimited global ID.
type Identifier string

var numericPattern = regexp.MustCompile(`^\d+$`)

// Empty reports whether no identifier was supplied
func (id Identifier) Empty() bool {
	return id == ""
}

// Numeric reports whether the identifier is purely numeric
func (id Identifier) Numeric() bool {
	return numericPattern.MatchString(string(id))
}

// ResolvedProduct is the output of identifier resolution: a canonical
// numeric product ID plus the raw product payload it resolved to.
type ResolvedProduct struct {
	Platform  Kind
	ProductID string
	Product   map[string]interface{}
}

// AggregatedProduct is the final merged document: base product fields plus
// best-effort sub-resources (variants, metafields/custom fields, images,
// brand, categories).
type AggregatedProduct map[string]interface{}

// Connector is the two-stage contract every platform implements.
// Resolution failures are fatal for the request; sub-resource failures
// inside Aggregate degrade to empty defaults.
type Connector interface {
	Kind() Kind
	Resolve(ctx context.Context, id Identifier) (*ResolvedProduct, error)
	Aggregate(ctx context.Context, resolved *ResolvedProduct) (AggregatedProduct, error)
}

// NumberString renders a JSON-decoded scalar as its canonical numeric
// string. Product IDs arrive as float64 after decoding into maps.
func NumberString(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	case string:
		return n
	default:
		return ""
	}
}
