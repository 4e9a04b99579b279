package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/payfuse/payfuse/handler"
	"github.com/payfuse/payfuse/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	payment := handler.NewPaymentHandler(provider.NewPaymentService(), validator.New(), provider.NewDispatcher(nil), nil)

	r := chi.NewRouter()
	Routes(r, payment, nil)
	return r
}

func TestLivenessProbe(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	newTestServer(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["status"])
	assert.Equal(t, float64(http.StatusOK), body["code"])
	assert.Contains(t, body, "mode")
}

func TestProviderRoutesAreMounted(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/provider/tripay/payment/channel"},
		{http.MethodGet, "/api/provider/tripay/payment/instruction/BRIVA"},
		{http.MethodGet, "/api/provider/tripay/payment/status/REF1"},
		{http.MethodPost, "/api/provider/tripay/transaction/create"},
		{http.MethodGet, "/api/provider/tripay/transaction/detail/REF1"},
		{http.MethodPost, "/api/provider/tripay/callback"},
		{http.MethodGet, "/api/provider/tripay/merchant/transactions"},
		{http.MethodGet, "/api/provider/tripay/merchant/fee-calculator"},
	}

	server := newTestServer(t)
	for _, route := range routes {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, nil)
		server.ServeHTTP(rec, req)

		// no providers registered, so routed requests answer 404 from the
		// handler rather than 405 from the mux
		assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/provider", nil)
	newTestServer(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
