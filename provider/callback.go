package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DetailFetcher returns the authoritative transaction detail for a reference
type DetailFetcher func(ctx context.Context, reference string) (*TransactionDetail, error)

// CallbackError carries the HTTP status and message a failed callback maps
// to. Format, when set, is an example payload the response should echo so
// the caller can see the expected body shape.
type CallbackError struct {
	Status  int
	Message string
	Err     error
	Format  map[string]any
}

func (e *CallbackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Messages returned by the callback pipeline
const (
	MsgMissingBody      = "Missing request body parameters."
	MsgNotPaid          = "Transaction is not paid yet"
	MsgNoSignature      = "No callback signature provided"
	MsgInvalidSignature = "Invalid signature"
	MsgDetailFailed     = "Failed to fetch transaction detail"
	MsgInvalidDetail    = "Transaction not found or invalid"
	MsgProcessed        = "Callback processed successfully"
)

// CallbackFormat is the example payload echoed back on an empty callback body
var CallbackFormat = map[string]any{
	"status":         "PAID",
	"reference":      "T1234567890",
	"merchant_ref":   "INV-20240101",
	"total_amount":   100000,
	"payment_method": "BRIVA",
	"paid_at":        "2024-01-01 12:00:00",
}

// Processor runs the callback verification pipeline for one provider. It is
// a single-pass state machine with no retries: every failure is terminal for
// the current request.
type Processor struct {
	signingKey  string
	mode        CallbackMode
	fetchDetail DetailFetcher
	dispatcher  *Dispatcher
}

// NewProcessor creates a callback processor. The signing key verifies
// inbound signatures, fetch confirms the transaction against the provider,
// and the dispatcher is used only in fan-out mode.
func NewProcessor(signingKey string, mode CallbackMode, fetch DetailFetcher, dispatcher *Dispatcher) *Processor {
	return &Processor{
		signingKey:  signingKey,
		mode:        mode,
		fetchDetail: fetch,
		dispatcher:  dispatcher,
	}
}

// Mode reports how the synthesized event is delivered
func (p *Processor) Mode() CallbackMode {
	return p.mode
}

// Process validates an inbound callback and synthesizes the verified event.
// The raw body is verified byte-exact; the inbound payload is trusted only
// for routing, the provider's own transaction detail is the source of truth
// for the event content. In fan-out mode the event is broadcast to all
// subscribers before returning.
func (p *Processor) Process(ctx context.Context, rawBody []byte, signature string) (*VerifiedEvent, *CallbackError) {
	var fields map[string]json.RawMessage
	if len(rawBody) == 0 || json.Unmarshal(rawBody, &fields) != nil || len(fields) == 0 {
		return nil, &CallbackError{Status: http.StatusBadRequest, Message: MsgMissingBody, Format: CallbackFormat}
	}

	// Per-field decoding: a mistyped unrelated field must not mask the
	// status of an otherwise valid notification.
	var status, reference string
	_ = json.Unmarshal(fields["status"], &status)
	_ = json.Unmarshal(fields["reference"], &reference)

	if status != "PAID" {
		return nil, &CallbackError{Status: http.StatusBadRequest, Message: MsgNotPaid}
	}

	if signature == "" {
		return nil, &CallbackError{Status: http.StatusBadRequest, Message: MsgNoSignature}
	}

	if !VerifyCallback(p.signingKey, rawBody, signature) {
		return nil, &CallbackError{Status: http.StatusBadRequest, Message: MsgInvalidSignature}
	}

	detail, err := p.fetchDetail(ctx, reference)
	if err != nil {
		return nil, &CallbackError{Status: http.StatusInternalServerError, Message: MsgDetailFailed, Err: err}
	}

	if detail == nil || !detail.Success || !detail.HasData() {
		return nil, &CallbackError{Status: http.StatusBadRequest, Message: MsgInvalidDetail}
	}

	verified := &VerifiedEvent{
		Success:    true,
		Message:    MsgProcessed,
		CodeRedeem: GenerateVoucherCode(),
		UserID:     GenerateUserID(),
		Type:       ExtractAfterDash(detail.FirstItemSKU()),
		Data:       detail.Data,
	}

	if p.mode == CallbackFanout && p.dispatcher != nil {
		p.dispatcher.Dispatch(ctx, verified)
	}

	return verified, nil
}
