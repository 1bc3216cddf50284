package main

import (
	"checkout-backend/config"
	"checkout-backend/internal/delivery/http/middleware"
	v1 "checkout-backend/internal/delivery/http/v1"
	"checkout-backend/internal/domain"
	"checkout-backend/internal/infrastructure/cache"
	"checkout-backend/internal/infrastructure/cartsource"
	"checkout-backend/internal/infrastructure/gateway"
	"checkout-backend/internal/repository"
	"checkout-backend/internal/usecase"
	"checkout-backend/pkg/logger"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Session Store
	// With a DSN configured sessions live in Postgres; otherwise they are held
	// in process memory and expire with the session TTL.
	var sessionRepo domain.SessionRepository
	if cfg.DBUrl != "" {
		pgxPool, err := repository.NewPgxPool(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pgxPool.Close()
		if err := repository.EnsureSchema(context.Background(), pgxPool); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure session schema")
		}
		sessionRepo = repository.NewPostgresSessionRepository(pgxPool)
		log.Info().Msg("Successfully connected to PostgreSQL via pgx")
	} else {
		sessionRepo = repository.NewMemorySessionRepository(cfg.SessionTTL)
		log.Info().Msg("Using in-memory session store")
	}

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Cart Source
	cartClient := cartsource.NewClient(cfg.CartSourceURL, cfg.GatewayTimeout, memCache, cfg.CartSourceTTL)

	// Payment Gateway
	paymentGW, err := gateway.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize payment gateway")
	}
	log.Info().Str("provider", cfg.PaymentProvider).Msg("Payment gateway initialized")

	// Set up Router
	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Checkout Module
	checkoutUC := usecase.NewCheckoutUsecase(sessionRepo, cartClient, cfg.CartUserID)
	checkoutHandler := v1.NewCheckoutHandler(checkoutUC, cfg.MaxCartQuantity)

	// Payment Module
	paymentUC := usecase.NewPaymentUsecase(sessionRepo, paymentGW)
	paymentHandler := v1.NewPaymentHandler(paymentUC)

	// Cart
	mux.HandleFunc("GET /api/v1/cart", checkoutHandler.GetCart)
	mux.HandleFunc("PUT /api/v1/cart/items/{id}", checkoutHandler.UpdateCartItem)
	mux.HandleFunc("DELETE /api/v1/cart/items/{id}", checkoutHandler.RemoveCartItem)

	// Checkout Session
	mux.HandleFunc("GET /api/v1/checkout/session", checkoutHandler.GetSession)
	mux.HandleFunc("POST /api/v1/checkout/address", checkoutHandler.SubmitAddress)
	mux.HandleFunc("POST /api/v1/checkout/payment-method", checkoutHandler.SetPaymentMethod)
	mux.HandleFunc("GET /api/v1/checkout/steps/{step}", checkoutHandler.StepGate)
	mux.HandleFunc("POST /api/v1/checkout/reset", checkoutHandler.Reset)

	// Payments
	mux.HandleFunc("POST /api/v1/payments/orders", paymentHandler.CreateOrder)
	mux.HandleFunc("POST /api/v1/payments/sessions", paymentHandler.CreateSession)
	mux.HandleFunc("GET /api/v1/payments/result", paymentHandler.PaymentResult)

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,            // requests per second
		100,           // burst
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS, Request Logger, Session cookie, Rate Limit, and Gzip.
	// The session cookie sits outside the logger so request logs carry the
	// session ID.
	secureCookies := cfg.Env == "production"
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = middleware.NewSessionMiddleware(cfg.SessionSecret, cfg.SessionTTL, secureCookies)(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
