package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/payfuse/payfuse/handler"
	"github.com/payfuse/payfuse/infra/config"
	"github.com/payfuse/payfuse/infra/middle"
	"github.com/payfuse/payfuse/infra/notify"
	"github.com/payfuse/payfuse/infra/response"
	"github.com/payfuse/payfuse/provider"
	"github.com/payfuse/payfuse/router"

	"github.com/payfuse/payfuse/provider/paypal"

	// provider registrations
	_ "github.com/payfuse/payfuse/provider/midtrans"
	_ "github.com/payfuse/payfuse/provider/tripay"
)

var PORT string

func init() {
	// Load Env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Load Env: %v", err)
	}
	// init conf
	_ = config.App()

	PORT = config.App().Port
}

func main() {
	cfg := config.App()

	// Register providers from environment credentials
	paymentService := provider.NewPaymentService()
	providerConfig := config.NewProviderConfig()
	providerConfig.LoadFromEnv()

	for _, providerName := range providerConfig.GetAvailableProviders() {
		if providerName == "paypal" {
			continue // handled by its own client below
		}
		providerCfg, err := providerConfig.GetConfig(providerName)
		if err != nil {
			log.Printf("Failed to get configuration for provider %s: %v", providerName, err)
			continue
		}
		if err := paymentService.AddProvider(providerName, providerCfg); err != nil {
			log.Printf("Failed to register provider %s: %v", providerName, err)
			continue
		}
		log.Printf("Registered provider %s", providerName)
	}

	// PayPal runs outside the signed-callback flow and gets its own client
	var paypalHandler *handler.PayPalHandler
	if paypalCfg, err := providerConfig.GetConfig("paypal"); err == nil {
		client, err := paypal.NewClient(paypalCfg)
		if err != nil {
			log.Printf("Failed to initialize PayPal client: %v", err)
		} else {
			paypalHandler = handler.NewPayPalHandler(client)
			log.Println("Registered provider paypal")
		}
	}

	dispatcher := provider.NewDispatcher(cfg.Webhooks)
	notifier := notify.NewTelegram(cfg.Telegram)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg.Validator, dispatcher, notifier)

	// Chi Define Routes
	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Security Middleware
	rateLimiter := middle.NewRateLimiter()
	r.Use(middle.SecurityHeadersMiddleware())
	r.Use(middle.RateLimitMiddleware(rateLimiter))
	r.Use(middle.RequestValidationMiddleware())

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Callback-Signature", "Origin", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "Content-Length", "Access-Control-Allow-Origin"},
		AllowCredentials: true,
		MaxAge:           300, // Preflight cache time (second)
	}))

	router.Routes(r, paymentHandler, paypalHandler)

	// Not Found
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = response.WriteJSON(w, http.StatusNotFound, response.Response{Success: false, Message: "Not Found"})
	})

	// Create a context that listens for interrupt and terminate signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", PORT),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	log.Println("API is running on", PORT)

	// Block until a signal is received
	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
