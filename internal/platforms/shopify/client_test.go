package shopify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"product-gateway-service/internal/platforms"
)

func testClient(serverURL string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := New(platforms.Credentials{
		Platform:    platforms.KindShopify,
		StoreHash:   "test",
		AccessToken: "tok",
	}, Options{PageSize: 10, FanoutLimit: 4, Logger: logger})
	c.baseURL = serverURL
	return c
}

func TestCanonicalCandidate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"12345", "12345"},
		{"shopify_us_12345_678", "12345"},
		{"a_b_c_d", "c"},
		{"a_b", "a"},
		{"a_b_c", "a"},
		{"a_b_c_d_e", "a"},
		{"plain-sku", "plain-sku"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalCandidate(tt.raw))
		})
	}
}

func TestResolveVariantFallbackUsesParentProduct(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/variants/456.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"variant":{"id":456,"product_id":999}}`))
	})
	mux.HandleFunc("/products/999.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"product":{"id":999,"title":"Parent"}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolved, err := testClient(server.URL).Resolve(context.Background(), "456")
	require.NoError(t, err)
	assert.Equal(t, "999", resolved.ProductID)
	assert.Equal(t, "Parent", resolved.Product["title"])
}

func TestResolveVariantMissKeepsCandidate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/456.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"product":{"id":456,"title":"Direct"}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	// variant lookup 404s; the candidate is used as the product ID
	resolved, err := testClient(server.URL).Resolve(context.Background(), "456")
	require.NoError(t, err)
	assert.Equal(t, "456", resolved.ProductID)
}

func TestResolveCompositeIdentifier(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/variants/12345.json", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/products/12345.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"product":{"id":12345}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolved, err := testClient(server.URL).Resolve(context.Background(), "shopify_us_12345_678")
	require.NoError(t, err)
	assert.Equal(t, "12345", resolved.ProductID)
}

func TestResolveMissingIdentifier(t *testing.T) {
	_, err := testClient("http://unused").Resolve(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, platforms.ErrInvalidInput, platforms.AsAPIError(err).Kind)
}

func TestResolveProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := testClient(server.URL).Resolve(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, platforms.ErrNotFound, platforms.AsAPIError(err).Kind)
}

func TestAggregateMetafieldFailureDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/7/metafields.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolved := &platforms.ResolvedProduct{
		Platform:  platforms.KindShopify,
		ProductID: "7",
		Product:   map[string]interface{}{"id": float64(7)},
	}
	aggregated, err := testClient(server.URL).Aggregate(context.Background(), resolved)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{}, aggregated["metafields"])
	assert.Equal(t, resolved.Product, aggregated["product"])
}

func TestListPreservesOrderWithIndependentDegradation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[
			{"id":1,"title":"one","variants":[{"id":11}]},
			{"id":2,"title":"two","variants":[{"id":22}]},
			{"id":3,"title":"three","variants":[{"id":33}]}
		]}`))
	})
	mux.HandleFunc("/products/1/metafields.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metafields":[{"key":"m1"}]}`))
	})
	mux.HandleFunc("/products/2/metafields.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/products/3/metafields.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metafields":[{"key":"m3"}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	items, err := testClient(server.URL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	// upstream listing order is preserved
	assert.Equal(t, "one", items[0]["product"].(map[string]interface{})["title"])
	assert.Equal(t, "two", items[1]["product"].(map[string]interface{})["title"])
	assert.Equal(t, "three", items[2]["product"].(map[string]interface{})["title"])

	// only the failed item's metafields degrade
	assert.Len(t, items[0]["metafields"], 1)
	assert.Equal(t, []interface{}{}, items[1]["metafields"])
	assert.Len(t, items[2]["metafields"], 1)

	// embedded variants are attached as-is
	assert.Len(t, items[1]["variants"], 1)
}

func TestListRespectsPageSize(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"products":[{"id":5,"title":"solo"}]}`))
	})
	mux.HandleFunc("/products/5/metafields.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metafields":[]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := testClient(server.URL)
	c.pageSize = 1

	items, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []interface{}{}, items[0]["variants"])
}
