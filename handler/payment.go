package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/payfuse/payfuse/infra/notify"
	"github.com/payfuse/payfuse/infra/response"
	"github.com/payfuse/payfuse/provider"
)

// CallbackSignatureHeader carries the provider-computed HMAC of the body
const CallbackSignatureHeader = "X-Callback-Signature"

// CreateTransactionRequest is the validated subset of a transaction-create
// body. Extra fields are forwarded to the provider untouched.
type CreateTransactionRequest struct {
	MerchantRef   string               `json:"merchant_ref" validate:"required"`
	Amount        json.Number          `json:"amount" validate:"required"`
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string               `json:"customer_phone"`
	ReturnURL     string               `json:"return_url" validate:"omitempty,url"`
	Method        string               `json:"method"`
	OrderItems    []provider.OrderItem `json:"order_items"`
}

// createTransactionFormat is echoed back when the create body is empty
var createTransactionFormat = map[string]any{
	"return_url":     "https://example.com/return",
	"method":         "BRIVA",
	"merchant_ref":   "INV345675",
	"amount":         100000,
	"customer_name":  "Customer Name",
	"customer_email": "customer@example.com",
	"customer_phone": "081234567890",
	"order_items": []map[string]any{
		{
			"sku":         "PRODUCT-1",
			"name":        "Product Name 1",
			"price":       500000,
			"quantity":    1,
			"product_url": "https://example.com/product/product-name-1",
			"image_url":   "https://example.com/product/product-name-1.jpg",
		},
	},
}

// PaymentHandler handles payment related HTTP requests for the providers
// registered with the payment service.
type PaymentHandler struct {
	service    *provider.PaymentService
	validate   *validator.Validate
	dispatcher *provider.Dispatcher
	notifier   *notify.Telegram
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service *provider.PaymentService, validate *validator.Validate, dispatcher *provider.Dispatcher, notifier *notify.Telegram) *PaymentHandler {
	return &PaymentHandler{
		service:    service,
		validate:   validate,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

// PaymentChannels relays the provider's payment method list
func (h *PaymentHandler) PaymentChannels(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProvider(w, r)
	if !ok {
		return
	}

	raw, err := p.PaymentChannels(r.Context())
	if err != nil {
		h.relayError(w, err, "Failed to fetch payment methods")
		return
	}

	h.notify("<b>Payment methods fetched successfully</b>")
	response.Raw(w, http.StatusOK, raw)
}

// PaymentInstruction relays payment instructions for a channel code
func (h *PaymentHandler) PaymentInstruction(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProvider(w, r)
	if !ok {
		return
	}

	code := chi.URLParam(r, "code")
	raw, err := p.PaymentInstruction(r.Context(), code)
	if err != nil {
		h.relayError(w, err, "Failed to fetch payment instructions")
		return
	}

	response.Raw(w, http.StatusOK, raw)
}

// TransactionStatus relays the provider's check-status response
func (h *PaymentHandler) TransactionStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProvider(w, r)
	if !ok {
		return
	}

	reference := chi.URLParam(r, "reference")
	raw, err := p.TransactionStatus(r.Context(), reference)
	if err != nil {
		h.relayError(w, err, "Failed to fetch transaction status")
		return
	}

	response.Raw(w, http.StatusOK, raw)
}

// CreateTransaction validates the caller's body and forwards it signed
func (h *PaymentHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProvider(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	payload, ok := decodeBody(body)
	if !ok || len(payload) == 0 {
		_ = response.WriteJSON(w, http.StatusBadRequest, response.Response{
			Success: false,
			Message: provider.MsgMissingBody,
			Data:    createTransactionFormat,
		})
		return
	}

	var req CreateTransactionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}

	raw, err := p.CreateTransaction(r.Context(), payload)
	if err != nil {
		h.notify("<b>Failed to create transaction:</b>\n<code>%s</code>", err)
		h.relayError(w, err, "Failed to create transaction")
		return
	}

	h.notify("<b>Transaction created successfully:</b>\n<code>%s</code>", req.MerchantRef)
	response.Raw(w, http.StatusOK, raw)
}

// TransactionDetail relays the provider's transaction detail
func (h *PaymentHandler) TransactionDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProvider(w, r)
	if !ok {
		return
	}

	reference := chi.URLParam(r, "reference")
	detail, err := p.TransactionDetail(r.Context(), reference)
	if err != nil {
		h.relayError(w, err, "Failed to fetch transaction detail")
		return
	}

	_ = response.WriteJSON(w, http.StatusOK, detail)
}

// MerchantTransactions relays the merchant transaction history
func (h *PaymentHandler) MerchantTransactions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProvider(w, r)
	if !ok {
		return
	}

	raw, err := p.MerchantTransactions(r.Context())
	if err != nil {
		h.relayError(w, err, "Failed to fetch transaction history")
		return
	}

	response.Raw(w, http.StatusOK, raw)
}

// FeeCalculator relays the merchant fee calculation
func (h *PaymentHandler) FeeCalculator(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProvider(w, r)
	if !ok {
		return
	}

	amount := r.URL.Query().Get("amount")
	if amount == "" {
		response.Error(w, http.StatusBadRequest, "Missing amount query parameter.", nil)
		return
	}

	raw, err := p.FeeCalculator(r.Context(), amount)
	if err != nil {
		h.relayError(w, err, "Failed to fetch merchant fee calculation")
		return
	}

	response.Raw(w, http.StatusOK, raw)
}

// HandleCallback runs the callback verification pipeline for the provider
// and answers according to its callback mode.
func (h *PaymentHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProvider(w, r)
	if !ok {
		return
	}

	if p.CallbackMode() == provider.CallbackNone {
		response.Error(w, http.StatusNotFound, "Not Found", nil)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	processor := provider.NewProcessor(p.CallbackKey(), p.CallbackMode(), p.TransactionDetail, h.dispatcher)
	event, cbErr := processor.Process(r.Context(), body, r.Header.Get(CallbackSignatureHeader))
	if cbErr != nil {
		h.notify("<b>Failed to process callback:</b>\n<code>%s</code>", cbErr.Message)
		if cbErr.Format != nil {
			_ = response.WriteJSON(w, cbErr.Status, response.Response{
				Success: false,
				Message: cbErr.Message,
				Data:    cbErr.Format,
			})
			return
		}
		response.Error(w, cbErr.Status, cbErr.Message, cbErr.Err)
		return
	}

	h.notify("<b>Callback processed successfully:</b>\n<code>%s</code>", event.CodeRedeem)

	if processor.Mode() == provider.CallbackDirect {
		_ = response.WriteJSON(w, http.StatusOK, event)
		return
	}

	// Fan-out mode: the event already went to the subscribers
	_ = response.WriteJSON(w, http.StatusOK, response.Response{
		Success: true,
		Message: provider.MsgProcessed,
	})
}

func (h *PaymentHandler) resolveProvider(w http.ResponseWriter, r *http.Request) (provider.PaymentProvider, bool) {
	name := chi.URLParam(r, "provider")
	p, err := h.service.GetProvider(name)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Unknown payment provider", err)
		return nil, false
	}
	return p, true
}

func (h *PaymentHandler) relayError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, provider.ErrNotSupported) {
		response.Error(w, http.StatusNotFound, "Not Found", nil)
		return
	}
	response.Error(w, http.StatusInternalServerError, message, err)
}

// notify posts an operational message in the background; notifier failures
// never affect the request.
func (h *PaymentHandler) notify(format string, args ...any) {
	if h.notifier == nil {
		return
	}
	message := fmt.Sprintf(format, args...)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.notifier.Send(ctx, message); err != nil {
			log.Printf("notify: %v", err)
		}
	}()
}

// decodeBody parses a JSON object preserving number formatting, reporting
// false for bodies that are empty or not an object.
func decodeBody(body []byte) (map[string]any, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, false
	}
	return payload, true
}
