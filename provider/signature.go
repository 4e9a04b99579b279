package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

// SignCreate computes the transaction-create signature: hex-encoded
// HMAC-SHA256 over the exact concatenation merchantCode + merchantRef +
// amount, no delimiters. The amount must already be in its decimal string
// form; any deviation breaks provider compatibility.
func SignCreate(merchantCode, privateKey, merchantRef, amount string) string {
	mac := hmac.New(sha256.New, []byte(privateKey))
	mac.Write([]byte(merchantCode + merchantRef + amount))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback checks a provider-supplied callback signature against the
// raw request body. The body bytes are hashed exactly as received, never
// re-marshalled, so the provider's field order is reproduced byte-exact.
// Comparison is constant-time.
func VerifyCallback(privateKey string, rawBody []byte, signatureHex string) bool {
	provided, err := hex.DecodeString(strings.TrimSpace(signatureHex))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(privateKey))
	mac.Write(rawBody)
	return hmac.Equal(mac.Sum(nil), provided)
}

// AmountString renders a caller-supplied amount exactly as it appeared in
// the request JSON, so the signature matches what the provider computes.
// Bodies decoded with json.Decoder.UseNumber preserve the original digits.
func AmountString(v any) string {
	switch amount := v.(type) {
	case json.Number:
		return amount.String()
	case string:
		return amount
	case float64:
		return strconv.FormatFloat(amount, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(amount, 10)
	case int:
		return strconv.Itoa(amount)
	default:
		return ""
	}
}
