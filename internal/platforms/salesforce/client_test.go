package salesforce

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
		Platform: platforms.KindSalesforce,
		Host:     "shop.demandware.net",
		ClientID: "client-1",
	}, Options{})
	c.baseURL = serverURL
	return c
}

func TestResolveExpandsProductRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/s/-/dw/shop/v20_4/products/SKU-9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client-1", r.URL.Query().Get("client_id"))
		assert.Equal(t, "availability,images,prices,variations", r.URL.Query().Get("expand"))
		w.Write([]byte(`{"id":"SKU-9","name":"Shoe","price":79.99}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolved, err := testClient(server.URL).Resolve(context.Background(), "SKU-9")
	require.NoError(t, err)
	assert.Equal(t, "SKU-9", resolved.ProductID)
	assert.Equal(t, "Shoe", resolved.Product["name"])
}

func TestResolveMissingIdentifier(t *testing.T) {
	_, err := testClient("http://unused").Resolve(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, platforms.ErrInvalidInput, platforms.AsAPIError(err).Kind)
}

func TestAggregateIsPassthrough(t *testing.T) {
	resolved := &platforms.ResolvedProduct{
		Platform:  platforms.KindSalesforce,
		ProductID: "SKU-9",
		Product:   map[string]interface{}{"id": "SKU-9"},
	}

	aggregated, err := testClient("http://unused").Aggregate(context.Background(), resolved)
	require.NoError(t, err)
	assert.Equal(t, platforms.AggregatedProduct(resolved.Product), aggregated)
}
