package httptransport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	memorykv "github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/kvstore/memory"
	kvrepo "github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/repositories/order/kv"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/catalog"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/services/ordersvc"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "s3cret"

const examplePayload = `{
	"name": "Ana",
	"phone": "81999990000",
	"items": [{"id": 1, "name": "Salmão", "weight": "500g", "price": "R$ 42,90", "quantity": 2}],
	"total": 85.80,
	"deliveryMethod": "pickup",
	"paymentMethod": "cash"
}`

func newTestHandler(t *testing.T, authToken string) http.Handler {
	t.Helper()

	svc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(kvrepo.NewOrderRepository(memorykv.NewStore())),
		ordersvc.WithDefaultListLimit(kvrepo.DefaultListLimit),
	)
	h := NewHTTPTransport(svc,
		WithCatalog(catalog.Default()),
		WithMetrics(metrics.NewRegistry("test")),
		WithAuthToken(authToken),
	)
	h.RegisterRoutes()

	return h.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var doc map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), rec.Body.String())
	}

	return rec, doc
}

func createOrder(t *testing.T, h http.Handler) string {
	t.Helper()

	rec, doc := do(t, h, http.MethodPost, "/api/orders", examplePayload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return doc["orderId"].(string)
}

func TestCreateAndGetOrder(t *testing.T) {
	h := newTestHandler(t, token)

	rec, doc := do(t, h, http.MethodPost, "/api/orders", examplePayload)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, doc["success"])
	assert.Equal(t, "Pedido criado com sucesso!", doc["message"])
	orderID := doc["orderId"].(string)
	assert.Regexp(t, `^ORD-\d+-[a-z0-9]{7}$`, orderID)

	rec, doc = do(t, h, http.MethodGet, "/api/orders/"+orderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	o := doc["order"].(map[string]any)
	assert.Equal(t, "pending", o["status"])
	assert.Equal(t, 85.8, o["total"])
	assert.Equal(t, "Ana", o["customer"].(map[string]any)["name"])
	assert.NotContains(t, o, "updatedAt")
}

func TestCreateOrder_BadRequests(t *testing.T) {
	h := newTestHandler(t, token)

	rec, doc := do(t, h, http.MethodPost, "/api/orders", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, doc["error"])

	rec, doc = do(t, h, http.MethodPost, "/api/orders", `{"name":"Ana","phone":"81999990000","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields: name, phone, items, total", doc["error"])

	rec, _ = do(t, h, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestGetOrder_NotFound(t *testing.T) {
	h := newTestHandler(t, token)

	rec, doc := do(t, h, http.MethodGet, "/api/orders/ORD-0-missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", doc["error"])
}

func TestListOrders(t *testing.T) {
	h := newTestHandler(t, token)

	for i := 0; i < 3; i++ {
		createOrder(t, h)
	}

	tests := []struct {
		query string
		want  float64
	}{
		{query: "?limit=2", want: 2},
		{query: "", want: 3},
		{query: "?limit=abc", want: 3},
		{query: "?limit=0", want: 3},
		{query: "?limit=-4", want: 3},
	}

	for _, tt := range tests {
		rec, doc := do(t, h, http.MethodGet, "/api/orders"+tt.query, "")
		require.Equal(t, http.StatusOK, rec.Code, tt.query)
		assert.Equal(t, tt.want, doc["count"], tt.query)
		assert.Len(t, doc["orders"], int(tt.want), tt.query)
	}
}

func TestGetCustomer(t *testing.T) {
	h := newTestHandler(t, token)

	orderID := createOrder(t, h)
	createOrder(t, h)

	rec, doc := do(t, h, http.MethodGet, "/api/customers/81999990000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	c := doc["customer"].(map[string]any)
	assert.Equal(t, float64(2), c["totalOrders"])
	orders := doc["orders"].([]any)
	require.Len(t, orders, 2)
	assert.Equal(t, orderID, orders[0].(map[string]any)["orderId"])

	rec, doc = do(t, h, http.MethodGet, "/api/customers/11900000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Customer not found", doc["error"])
}

func TestGetCustomer_EscapedPhone(t *testing.T) {
	h := newTestHandler(t, token)

	payload := strings.Replace(examplePayload, `"81999990000"`, `"+55 (81) 99999-0000"`, 1)
	rec, _ := do(t, h, http.MethodPost, "/api/orders", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, path := range []string{
		"/api/customers/5581999990000",
		"/api/customers/%2B5581999990000",
		"/api/customers/%2B55%20(81)%2099999-0000",
	} {
		rec, doc := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		c := doc["customer"].(map[string]any)
		assert.Equal(t, "5581999990000", c["customerId"], path)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/customers/55", nil)
	req.URL.RawPath = "/api/customers/%zz55"
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid phone"}`, rec.Body.String())
}

func TestUpdateStatus(t *testing.T) {
	h := newTestHandler(t, token)
	orderID := createOrder(t, h)

	rec, doc := do(t, h, http.MethodPatch, "/api/orders/"+orderID+"/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Status atualizado com sucesso!", doc["message"])
	o := doc["order"].(map[string]any)
	assert.Equal(t, "confirmed", o["status"])
	assert.Contains(t, o, "updatedAt")

	rec, doc = do(t, h, http.MethodPatch, "/api/orders/"+orderID+"/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status is required", doc["error"])

	rec, _ = do(t, h, http.MethodPatch, "/api/orders/ORD-0-missing/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth(t *testing.T) {
	h := newTestHandler(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Server is running"}`, rec.Body.String())
}

func TestAuthDisabledWithoutToken(t *testing.T) {
	h := newTestHandler(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogAndMetrics(t *testing.T) {
	h := newTestHandler(t, token)

	rec, doc := do(t, h, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	categories := doc["categories"].([]any)
	assert.Len(t, categories, 4)

	createOrder(t, h)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="POST",route="/api/orders",status="201"} 1`)
}
