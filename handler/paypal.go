package handler

import (
	"io"
	"net/http"

	"github.com/payfuse/payfuse/infra/response"
	"github.com/payfuse/payfuse/provider/paypal"
)

// createOrderFormat is echoed back when the checkout order body is empty
var createOrderFormat = map[string]any{
	"intent": "CAPTURE",
	"purchase_units": []map[string]any{
		{
			"reference_id": "INV345675",
			"amount": map[string]any{
				"currency_code": "USD",
				"value": "100.00",
			},
		},
	},
}

// PayPalHandler proxies the PayPal checkout order surface
type PayPalHandler struct {
	client *paypal.Client
}

// NewPayPalHandler creates a new PayPal handler
func NewPayPalHandler(client *paypal.Client) *PayPalHandler {
	return &PayPalHandler{client: client}
}

// CreateCheckoutOrder forwards an order creation request with a fresh token
func (h *PayPalHandler) CreateCheckoutOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	payload, ok := decodeBody(body)
	if !ok || len(payload) == 0 {
		_ = response.WriteJSON(w, http.StatusBadRequest, response.Response{
			Success: false,
			Message: "Missing request body parameters.",
			Data:    createOrderFormat,
		})
		return
	}

	raw, err := h.client.CreateOrder(r.Context(), payload)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to create checkout order", err)
		return
	}

	response.Raw(w, http.StatusOK, raw)
}

// GetCheckoutOrder fetches a checkout order by its id
func (h *PayPalHandler) GetCheckoutOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		response.Error(w, http.StatusBadRequest, "Missing orderId query parameter.", nil)
		return
	}

	raw, err := h.client.GetOrder(r.Context(), orderID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to fetch checkout order", err)
		return
	}

	response.Raw(w, http.StatusOK, raw)
}
