package paypal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]string
		wantErr bool
	}{
		{
			name: "Valid configuration",
			config: map[string]string{
				"clientId":     "client-id",
				"clientSecret": "client-secret",
				"baseURL":      "https://api-m.sandbox.paypal.com",
			},
			wantErr: false,
		},
		{
			name: "Missing client id",
			config: map[string]string{
				"clientSecret": "client-secret",
				"baseURL":      "https://api-m.sandbox.paypal.com",
			},
			wantErr: true,
		},
		{
			name: "Missing client secret",
			config: map[string]string{
				"clientId": "client-id",
				"baseURL":  "https://api-m.sandbox.paypal.com",
			},
			wantErr: true,
		},
		{
			name: "Missing base URL",
			config: map[string]string{
				"clientId":     "client-id",
				"clientSecret": "client-secret",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(map[string]string{
		"clientId":     "client-id",
		"clientSecret": "client-secret",
		"baseURL":      server.URL,
	})
	require.NoError(t, err)
	return c
}

func TestClient_AccessToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/oauth2/token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		raw, _ := io.ReadAll(r.Body)
		assert.Equal(t, "grant_type=client_credentials", string(raw))

		w.Write([]byte(`{"access_token":"A21AAF","token_type":"Bearer","expires_in":32400}`))
	})

	token, err := c.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A21AAF", token)
}

func TestClient_AccessToken_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := c.AccessToken(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty access token")
}

func TestClient_CreateOrder(t *testing.T) {
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			w.Write([]byte(`{"access_token":"A21AAF"}`))
			return
		}

		assert.Equal(t, "/v2/checkout/orders", r.URL.Path)
		assert.Equal(t, "Bearer A21AAF", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"id":"ORDER123","status":"CREATED"}`))
	})

	raw, err := c.CreateOrder(context.Background(), map[string]any{"intent": "CAPTURE"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ORDER123","status":"CREATED"}`, string(raw))
	assert.Equal(t, "CAPTURE", gotBody["intent"])
}

func TestClient_GetOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			w.Write([]byte(`{"access_token":"A21AAF"}`))
			return
		}

		assert.Equal(t, "/v2/checkout/orders/ORDER123", r.URL.Path)
		assert.Equal(t, "Bearer A21AAF", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"ORDER123","status":"COMPLETED"}`))
	})

	raw, err := c.GetOrder(context.Background(), "ORDER123")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ORDER123","status":"COMPLETED"}`, string(raw))
}

func TestClient_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	})

	_, err := c.AccessToken(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate access token")
}
