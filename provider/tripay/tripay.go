package tripay

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
	// API Endpoints
	endpointPaymentChannel       = "/merchant/payment-channel"
	endpointPaymentInstruction   = "/payment/instruction"
	endpointCheckStatus          = "/transaction/check-status"
	endpointTransactionCreate    = "/transaction/create"
	endpointTransactionDetail    = "/transaction/detail"
	endpointMerchantTransactions = "/merchant/transactions"
	endpointFeeCalculator        = "/merchant/fee-calculator"

	// Signed create requests expire 24 hours after issue
	expiryWindow = 24 * time.Hour

	defaultTimeout = 30 * time.Second
)

// TripayProvider implements the provider.PaymentProvider interface for Tripay
type TripayProvider struct {
	merchantCode string
	privateKey   string
	apiKey       string
	client       *provider.HTTPClient
}

// NewProvider creates a new Tripay payment provider
func NewProvider() provider.PaymentProvider {
	return &TripayProvider{}
}

// Initialize sets up the Tripay provider with authentication credentials
func (p *TripayProvider) Initialize(conf map[string]string) error {
	p.apiKey = conf["apiKey"]
	p.privateKey = conf["privateKey"]
	p.merchantCode = conf["merchantCode"]

	if p.apiKey == "" || p.privateKey == "" || p.merchantCode == "" {
		return errors.New("tripay: apiKey, privateKey and merchantCode are required")
	}

	baseURL := conf["baseURL"]
	if baseURL == "" {
		return errors.New("tripay: baseURL is required")
	}

	p.client = provider.NewHTTPClient(&provider.HTTPClientConfig{
		BaseURL: baseURL,
		Timeout: defaultTimeout,
		DefaultHeaders: map[string]string{
			"Accept":        "application/json",
			"Authorization": "Bearer " + p.apiKey,
		},
	})

	return nil
}

// PaymentChannels lists Tripay's available payment methods
func (p *TripayProvider) PaymentChannels(ctx context.Context) (json.RawMessage, error) {
	return p.get(ctx, endpointPaymentChannel, nil)
}

// PaymentInstruction fetches payment instructions for a channel code
func (p *TripayProvider) PaymentInstruction(ctx context.Context, code string) (json.RawMessage, error) {
	return p.get(ctx, endpointPaymentInstruction, map[string]string{"code": code})
}

// TransactionStatus checks the status of a transaction by reference
func (p *TripayProvider) TransactionStatus(ctx context.Context, reference string) (json.RawMessage, error) {
	return p.get(ctx, endpointCheckStatus, map[string]string{"reference": reference})
}

// CreateTransaction signs the caller's payload and forwards it to Tripay.
// The signature covers merchantCode + merchant_ref + amount; merchant_code,
// signature and expired_time are injected into the forwarded body.
func (p *TripayProvider) CreateTransaction(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	merchantRef, _ := payload["merchant_ref"].(string)
	amount := provider.AmountString(payload["amount"])

	body := make(map[string]any, len(payload)+3)
	for k, v := range payload {
		body[k] = v
	}
	body["merchant_code"] = p.merchantCode
	body["signature"] = provider.SignCreate(p.merchantCode, p.privateKey, merchantRef, amount)
	body["expired_time"] = time.Now().Add(expiryWindow).Unix()

	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointTransactionCreate,
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("tripay: transaction create failed: %w", err)
	}
	return resp.Body, nil
}

// TransactionDetail fetches the authoritative transaction record
func (p *TripayProvider) TransactionDetail(ctx context.Context, reference string) (*provider.TransactionDetail, error) {
	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:      http.MethodGet,
		Endpoint:    endpointTransactionDetail,
		QueryParams: map[string]string{"reference": reference},
	})
	if err != nil {
		return nil, fmt.Errorf("tripay: transaction detail failed: %w", err)
	}

	var detail provider.TransactionDetail
	if err := p.client.ParseJSONResponse(resp, &detail); err != nil {
		return nil, fmt.Errorf("tripay: invalid transaction detail response: %w", err)
	}
	return &detail, nil
}

// MerchantTransactions lists the merchant's transaction history
func (p *TripayProvider) MerchantTransactions(ctx context.Context) (json.RawMessage, error) {
	return p.get(ctx, endpointMerchantTransactions, nil)
}

// FeeCalculator computes the merchant fee for an amount
func (p *TripayProvider) FeeCalculator(ctx context.Context, amount string) (json.RawMessage, error) {
	return p.get(ctx, endpointFeeCalculator, map[string]string{"amount": amount})
}

// CallbackMode reports that verified events are fanned out to subscribers
func (p *TripayProvider) CallbackMode() provider.CallbackMode {
	return provider.CallbackFanout
}

// CallbackKey returns the key Tripay signs callback bodies with
func (p *TripayProvider) CallbackKey() string {
	return p.privateKey
}

func (p *TripayProvider) get(ctx context.Context, endpoint string, query map[string]string) (json.RawMessage, error) {
	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:      http.MethodGet,
		Endpoint:    endpoint,
		QueryParams: query,
	})
	if err != nil {
		return nil, fmt.Errorf("tripay: request failed: %w", err)
	}
	return resp.Body, nil
}
