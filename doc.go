// Package payfuse provides a unified payment gateway that fronts multiple
// payment providers behind a single HTTP API. It signs outgoing transaction
// requests, verifies inbound payment callbacks, and relays provider responses
// byte-exact so callers integrate once instead of once per provider.
//
// # Overview
//
// Each provider exposes the same operation set (payment channels, transaction
// create, status, detail) under /api/provider/{name}. The gateway injects
// merchant credentials and HMAC signatures on the way out, and on the way in
// it verifies every callback against the raw request body before trusting it.
//
// # Architecture
//
// The payment flow follows this pattern:
//
//	┌─────────────────┐    ┌─────────────────┐    ┌─────────────────┐
//	│                 │    │                 │    │                 │
//	│   Your Apps     │◄──►│    PayFuse      │◄──►│   Payment       │
//	│  (subscribers)  │    │   (Gateway)     │    │   Providers     │
//	│                 │    │                 │    │                 │
//	└─────────────────┘    └─────────────────┘    └─────────────────┘
//
// # Supported Providers
//
//   - Tripay: full proxy surface with signed callbacks fanned out to
//     subscriber webhooks
//   - Midtrans: transaction proxy with callbacks answered directly
//   - PayPal: checkout order surface with client-credentials tokens
//
// # Callback Verification
//
// Inbound callbacks are accepted only when all of the following hold: the
// body parses into a payment event, the status is PAID, and the
// X-Callback-Signature header matches the HMAC-SHA256 of the raw body under
// the provider's signing key. The transaction is then re-fetched from the
// provider as the source of truth before a verified event is synthesized.
package payfuse
