// Package router wires the HTTP route tree to the payment handlers.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/payfuse/payfuse/handler"
	"github.com/payfuse/payfuse/infra/config"
	"github.com/payfuse/payfuse/infra/response"
)

// Routes mounts the liveness probe and the provider API. Static routes such
// as /paypal are matched before the {provider} wildcard.
func Routes(r chi.Router, payment *handler.PaymentHandler, paypal *handler.PayPalHandler) {
	r.Get("/", liveness)

	r.Route("/api/provider", func(r chi.Router) {
		if paypal != nil {
			r.Route("/paypal", func(r chi.Router) {
				r.Post("/checkout/orders", paypal.CreateCheckoutOrder)
				r.Get("/checkout/orders", paypal.GetCheckoutOrder)
			})
		}

		r.Route("/{provider}", func(r chi.Router) {
			r.Get("/payment/channel", payment.PaymentChannels)
			r.Get("/payment/instruction/{code}", payment.PaymentInstruction)
			r.Get("/payment/status/{reference}", payment.TransactionStatus)
			r.Post("/transaction/create", payment.CreateTransaction)
			r.Get("/transaction/detail/{reference}", payment.TransactionDetail)
			r.Post("/callback", payment.HandleCallback)
			r.Get("/merchant/transactions", payment.MerchantTransactions)
			r.Get("/merchant/fee-calculator", payment.FeeCalculator)
		})
	})
}

func liveness(w http.ResponseWriter, r *http.Request) {
	_ = response.WriteJSON(w, http.StatusOK, map[string]any{
		"status": true,
		"code":   http.StatusOK,
		"mode":   config.App().Mode,
	})
}
