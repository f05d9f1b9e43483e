package magento

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"product-gateway-service/internal/platforms"
)

func testClient(serverURL string) *Client {
	c := New(platforms.Credentials{
		Platform:    platforms.KindMagento,
		Host:        "shop.example.com",
		AccessToken: "key-1",
	}, Options{})
	c.baseURL = serverURL
	return c
}

func TestResolveUsesSKUVerbatim(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/V1/products/ABC123", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":55,"sku":"ABC123","name":"Gadget"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolved, err := testClient(server.URL).Resolve(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "55", resolved.ProductID)
	assert.Equal(t, "Gadget", resolved.Product["name"])
}

func TestResolveUpstream404IsNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := testClient(server.URL).Resolve(context.Background(), "GHOST")
	require.Error(t, err)
	assert.Equal(t, platforms.ErrNotFound, platforms.AsAPIError(err).Kind)
}

func TestAggregateIsPassthrough(t *testing.T) {
	resolved := &platforms.ResolvedProduct{
		Platform:  platforms.KindMagento,
		ProductID: "55",
		Product:   map[string]interface{}{"id": float64(55), "name": "Gadget"},
	}

	aggregated, err := testClient("http://unused").Aggregate(context.Background(), resolved)
	require.NoError(t, err)
	assert.Equal(t, platforms.AggregatedProduct(resolved.Product), aggregated)
}
