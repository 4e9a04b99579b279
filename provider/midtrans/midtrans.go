package midtrans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/payfuse/payfuse/provider"
)

const (
	endpointPaymentChannel     = "/merchant/payment-channel"
	endpointPaymentInstruction = "/payment/instruction"
	endpointTransactionCreate  = "/transaction/create"
	endpointTransactionDetail  = "/transaction/detail"

	expiryWindow   = 24 * time.Hour
	defaultTimeout = 30 * time.Second
)

// MidtransProvider implements the provider.PaymentProvider interface for
// Midtrans. The server key authenticates API calls; the client key signs
// callback bodies.
type MidtransProvider struct {
	merchantCode string
	clientKey    string
	serverKey    string
	client       *provider.HTTPClient
}

// NewProvider creates a new Midtrans payment provider
func NewProvider() provider.PaymentProvider {
	return &MidtransProvider{}
}

// Initialize sets up the Midtrans provider with authentication credentials
func (p *MidtransProvider) Initialize(conf map[string]string) error {
	p.serverKey = conf["apiKey"]
	p.clientKey = conf["privateKey"]
	p.merchantCode = conf["merchantCode"]

	if p.serverKey == "" || p.clientKey == "" || p.merchantCode == "" {
		return errors.New("midtrans: serverKey, clientKey and merchantCode are required")
	}

	baseURL := conf["baseURL"]
	if baseURL == "" {
		return errors.New("midtrans: baseURL is required")
	}

	p.client = provider.NewHTTPClient(&provider.HTTPClientConfig{
		BaseURL: baseURL,
		Timeout: defaultTimeout,
		DefaultHeaders: map[string]string{
			"Accept":        "application/json",
			"Authorization": "Bearer " + p.serverKey,
		},
	})

	return nil
}

// PaymentChannels lists the available payment methods
func (p *MidtransProvider) PaymentChannels(ctx context.Context) (json.RawMessage, error) {
	return p.get(ctx, endpointPaymentChannel, nil)
}

// PaymentInstruction fetches payment instructions for a channel code
func (p *MidtransProvider) PaymentInstruction(ctx context.Context, code string) (json.RawMessage, error) {
	return p.get(ctx, endpointPaymentInstruction, map[string]string{"code": code})
}

// TransactionStatus is not exposed for Midtrans
func (p *MidtransProvider) TransactionStatus(ctx context.Context, reference string) (json.RawMessage, error) {
	return nil, provider.ErrNotSupported
}

// CreateTransaction signs the caller's payload and forwards it to Midtrans
func (p *MidtransProvider) CreateTransaction(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	merchantRef, _ := payload["merchant_ref"].(string)
	amount := provider.AmountString(payload["amount"])

	body := make(map[string]any, len(payload)+3)
	for k, v := range payload {
		body[k] = v
	}
	body["merchant_code"] = p.merchantCode
	body["signature"] = provider.SignCreate(p.merchantCode, p.clientKey, merchantRef, amount)
	body["expired_time"] = time.Now().Add(expiryWindow).Unix()

	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointTransactionCreate,
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("midtrans: transaction create failed: %w", err)
	}
	return resp.Body, nil
}

// TransactionDetail fetches the authoritative transaction record
func (p *MidtransProvider) TransactionDetail(ctx context.Context, reference string) (*provider.TransactionDetail, error) {
	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:      http.MethodGet,
		Endpoint:    endpointTransactionDetail,
		QueryParams: map[string]string{"reference": reference},
	})
	if err != nil {
		return nil, fmt.Errorf("midtrans: transaction detail failed: %w", err)
	}

	var detail provider.TransactionDetail
	if err := p.client.ParseJSONResponse(resp, &detail); err != nil {
		return nil, fmt.Errorf("midtrans: invalid transaction detail response: %w", err)
	}
	return &detail, nil
}

// MerchantTransactions is not exposed for Midtrans
func (p *MidtransProvider) MerchantTransactions(ctx context.Context) (json.RawMessage, error) {
	return nil, provider.ErrNotSupported
}

// FeeCalculator is not exposed for Midtrans
func (p *MidtransProvider) FeeCalculator(ctx context.Context, amount string) (json.RawMessage, error) {
	return nil, provider.ErrNotSupported
}

// CallbackMode reports that verified events are returned to the caller
// directly instead of being fanned out.
func (p *MidtransProvider) CallbackMode() provider.CallbackMode {
	return provider.CallbackDirect
}

// CallbackKey returns the key Midtrans callback bodies are signed with
func (p *MidtransProvider) CallbackKey() string {
	return p.clientKey
}

func (p *MidtransProvider) get(ctx context.Context, endpoint string, query map[string]string) (json.RawMessage, error) {
	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:      http.MethodGet,
		Endpoint:    endpoint,
		QueryParams: query,
	})
	if err != nil {
		return nil, fmt.Errorf("midtrans: request failed: %w", err)
	}
	return resp.Body, nil
}
