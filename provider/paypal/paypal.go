package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/payfuse/payfuse/provider"
)

const (
	endpointOAuthToken     = "/v1/oauth2/token"
	endpointCheckoutOrders = "/v2/checkout/orders"

	defaultTimeout = 30 * time.Second
)

// Client is a thin PayPal REST API client. PayPal authenticates with an
// oauth2 client-credentials token rather than a static bearer key and sends
// no payment callbacks, so it sits outside the PaymentProvider interface.
type Client struct {
	clientID     string
	clientSecret string
	client       *provider.HTTPClient
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// NewClient creates a PayPal client from a credential map
func NewClient(conf map[string]string) (*Client, error) {
	clientID := conf["clientId"]
	clientSecret := conf["clientSecret"]
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("paypal: clientId and clientSecret are required")
	}

	baseURL := conf["baseURL"]
	if baseURL == "" {
		return nil, errors.New("paypal: baseURL is required")
	}

	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		client: provider.NewHTTPClient(&provider.HTTPClientConfig{
			BaseURL: baseURL,
			Timeout: defaultTimeout,
			DefaultHeaders: map[string]string{
				"Accept": "application/json",
			},
		}),
	}, nil
}

// AccessToken fetches a client-credentials access token. Tokens are fetched
// per call and never cached, matching the upstream contract of short-lived
// request scopes.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	resp, err := c.client.SendForm(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointOAuthToken,
		Headers: map[string]string{
			"Authorization": "Basic " + auth,
		},
		FormData: map[string]string{
			"grant_type": "client_credentials",
		},
	})
	if err != nil {
		return "", fmt.Errorf("paypal: failed to generate access token: %w", err)
	}

	var token tokenResponse
	if err := c.client.ParseJSONResponse(resp, &token); err != nil {
		return "", fmt.Errorf("paypal: invalid token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("paypal: empty access token in response")
	}

	return token.AccessToken, nil
}

// CreateOrder creates a checkout order from the caller's payload
func (c *Client) CreateOrder(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointCheckoutOrders,
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
		Body: payload,
	})
	if err != nil {
		return nil, fmt.Errorf("paypal: checkout order create failed: %w", err)
	}
	return resp.Body, nil
}

// GetOrder fetches a checkout order by id
func (c *Client) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:   http.MethodGet,
		Endpoint: endpointCheckoutOrders + "/" + orderID,
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("paypal: checkout order fetch failed: %w", err)
	}
	return resp.Body, nil
}
