package tripay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/payfuse/payfuse/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripayProvider_Initialize(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]string
		wantErr bool
	}{
		{
			name: "Valid configuration",
			config: map[string]string{
				"apiKey":       "test-api-key",
				"privateKey":   "test-private-key",
				"merchantCode": "T12345",
				"baseURL":      "https://tripay.co.id/api-sandbox",
			},
			wantErr: false,
		},
		{
			name: "Missing api key",
			config: map[string]string{
				"privateKey":   "test-private-key",
				"merchantCode": "T12345",
				"baseURL":      "https://tripay.co.id/api-sandbox",
			},
			wantErr: true,
		},
		{
			name: "Missing private key",
			config: map[string]string{
				"apiKey":       "test-api-key",
				"merchantCode": "T12345",
				"baseURL":      "https://tripay.co.id/api-sandbox",
			},
			wantErr: true,
		},
		{
			name: "Missing merchant code",
			config: map[string]string{
				"apiKey":     "test-api-key",
				"privateKey": "test-private-key",
				"baseURL":    "https://tripay.co.id/api-sandbox",
			},
			wantErr: true,
		},
		{
			name: "Missing base URL",
			config: map[string]string{
				"apiKey":       "test-api-key",
				"privateKey":   "test-private-key",
				"merchantCode": "T12345",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider()
			err := p.Initialize(tt.config)

			if (err != nil) != tt.wantErr {
				t.Errorf("Initialize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) provider.PaymentProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p := NewProvider()
	err := p.Initialize(map[string]string{
		"apiKey":       "test-api-key",
		"privateKey":   "test-private-key",
		"merchantCode": "T12345",
		"baseURL":      server.URL,
	})
	require.NoError(t, err)
	return p
}

func TestTripayProvider_PaymentChannels(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/merchant/payment-channel", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true,"data":[{"code":"BRIVA"}]}`))
	})

	raw, err := p.PaymentChannels(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[{"code":"BRIVA"}]}`, string(raw))
}

func TestTripayProvider_PaymentInstruction(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment/instruction", r.URL.Path)
		assert.Equal(t, "BRIVA", r.URL.Query().Get("code"))
		w.Write([]byte(`{"success":true,"data":[]}`))
	})

	_, err := p.PaymentInstruction(context.Background(), "BRIVA")
	require.NoError(t, err)
}

func TestTripayProvider_CreateTransaction(t *testing.T) {
	var gotBody map[string]any

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/create", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"success":true,"data":{"reference":"T100"}}`))
	})

	payload := map[string]any{
		"merchant_ref":  "INV345675",
		"amount":        json.Number("100000"),
		"customer_name": "Customer Name",
	}

	raw, err := p.CreateTransaction(context.Background(), payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"reference":"T100"}}`, string(raw))

	// Caller fields are forwarded untouched
	assert.Equal(t, "INV345675", gotBody["merchant_ref"])
	assert.Equal(t, "Customer Name", gotBody["customer_name"])

	// Gateway-injected fields
	assert.Equal(t, "T12345", gotBody["merchant_code"])
	assert.NotEmpty(t, gotBody["expired_time"])
	assert.Equal(t,
		provider.SignCreate("T12345", "test-private-key", "INV345675", "100000"),
		gotBody["signature"],
		"signature must cover merchantCode+merchantRef+amount")
}

func TestTripayProvider_TransactionDetail(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/detail", r.URL.Path)
		assert.Equal(t, "T100", r.URL.Query().Get("reference"))
		w.Write([]byte(`{"success":true,"data":{"reference":"T100","order_items":[{"sku":"PRODUCT-1-GOLD"}]}}`))
	})

	detail, err := p.TransactionDetail(context.Background(), "T100")
	require.NoError(t, err)
	assert.True(t, detail.Success)
	assert.True(t, detail.HasData())
	assert.Equal(t, "PRODUCT-1-GOLD", detail.FirstItemSKU())
}

func TestTripayProvider_TransactionDetail_UpstreamError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success":false}`))
	})

	_, err := p.TransactionDetail(context.Background(), "T100")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "transaction detail failed")
}

func TestTripayProvider_FeeCalculator(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/merchant/fee-calculator", r.URL.Path)
		assert.Equal(t, "100000", r.URL.Query().Get("amount"))
		w.Write([]byte(`{"success":true}`))
	})

	_, err := p.FeeCalculator(context.Background(), "100000")
	require.NoError(t, err)
}

func TestTripayProvider_CallbackConfiguration(t *testing.T) {
	p := NewProvider()
	require.NoError(t, p.Initialize(map[string]string{
		"apiKey":       "test-api-key",
		"privateKey":   "test-private-key",
		"merchantCode": "T12345",
		"baseURL":      "https://tripay.co.id/api-sandbox",
	}))

	assert.Equal(t, provider.CallbackFanout, p.CallbackMode())
	assert.Equal(t, "test-private-key", p.CallbackKey())
}
