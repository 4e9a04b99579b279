package provider

import (
	"context"
	"encoding/json"
	"errors"
)

// CallbackMode determines what a provider does with a verified payment event
type CallbackMode int

const (
	// CallbackNone means the provider sends no webhooks (PayPal)
	CallbackNone CallbackMode = iota
	// CallbackFanout broadcasts the verified event to subscriber webhooks
	CallbackFanout
	// CallbackDirect returns the verified event in the HTTP response
	CallbackDirect
)

// ErrNotSupported is returned for operations a provider does not expose
var ErrNotSupported = errors.New("operation not supported by this provider")

// OrderItem is a single product line inside a transaction
type OrderItem struct {
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	ProductURL string  `json:"product_url,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
}

// TransactionDetail is the authoritative transaction record fetched from the
// provider. Data is kept as raw JSON so the upstream payload is relayed
// byte-exact.
type TransactionDetail struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the detail carries a usable data payload
func (d *TransactionDetail) HasData() bool {
	return len(d.Data) > 0 && string(d.Data) != "null"
}

// FirstItemSKU returns the SKU of the first order item, or "" when the
// detail has no items.
func (d *TransactionDetail) FirstItemSKU() string {
	if !d.HasData() {
		return ""
	}
	var data struct {
		OrderItems []OrderItem `json:"order_items"`
	}
	if err := json.Unmarshal(d.Data, &data); err != nil || len(data.OrderItems) == 0 {
		return ""
	}
	return data.OrderItems[0].SKU
}

// VerifiedEvent is the record synthesized after a callback passes every
// verification step. It is either fanned out to subscribers or returned to
// the caller, depending on the provider's callback mode.
type VerifiedEvent struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	CodeRedeem string          `json:"code_redeem"`
	UserID     string          `json:"user_id"`
	Type       string          `json:"type,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// PaymentProvider is the interface every proxied payment gateway implements.
// Providers that lack an operation return ErrNotSupported.
type PaymentProvider interface {
	// Initialize sets up the provider with credentials from configuration
	Initialize(conf map[string]string) error

	// PaymentChannels lists the provider's available payment methods
	PaymentChannels(ctx context.Context) (json.RawMessage, error)

	// PaymentInstruction fetches payment instructions for a channel code
	PaymentInstruction(ctx context.Context, code string) (json.RawMessage, error)

	// TransactionStatus checks the status of a transaction by reference
	TransactionStatus(ctx context.Context, reference string) (json.RawMessage, error)

	// CreateTransaction signs and forwards a transaction-create request.
	// The payload is the caller's body with merchant_code, signature and
	// expired_time injected.
	CreateTransaction(ctx context.Context, payload map[string]any) (json.RawMessage, error)

	// TransactionDetail fetches the authoritative transaction record
	TransactionDetail(ctx context.Context, reference string) (*TransactionDetail, error)

	// MerchantTransactions lists the merchant's transaction history
	MerchantTransactions(ctx context.Context) (json.RawMessage, error)

	// FeeCalculator computes the merchant fee for an amount
	FeeCalculator(ctx context.Context, amount string) (json.RawMessage, error)

	// CallbackMode reports how verified callback events are delivered
	CallbackMode() CallbackMode

	// CallbackKey returns the key used to verify inbound callback signatures
	CallbackKey() string
}

// ProviderFactory is a function type that creates a new PaymentProvider
type ProviderFactory func() PaymentProvider
