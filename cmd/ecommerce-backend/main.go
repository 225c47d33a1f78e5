package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/zishraq/ecommerce-backend/docs"
	"github.com/zishraq/ecommerce-backend/internal/api/handlers"
	"github.com/zishraq/ecommerce-backend/internal/api/middleware"
	"github.com/zishraq/ecommerce-backend/internal/cache"
	"github.com/zishraq/ecommerce-backend/internal/config"
	"github.com/zishraq/ecommerce-backend/internal/health"
	"github.com/zishraq/ecommerce-backend/internal/metrics"
	repository "github.com/zishraq/ecommerce-backend/internal/repositories"
	service "github.com/zishraq/ecommerce-backend/internal/services"
	"github.com/zishraq/ecommerce-backend/internal/telemetry"
	"github.com/zishraq/ecommerce-backend/pkg/sendgrid"
	"github.com/zishraq/ecommerce-backend/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Online Shop API
//	@version					1.0
//	@description				Catalog, carts, orders and shipping for a small online shop.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer redisClient.Close()

	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	var payments stripe.Client
	if cfg.Stripe.APIKey != "" {
		payments = stripe.NewStripeClient(cfg.Stripe.APIKey)
	} else {
		slog.Warn("Stripe is not configured, payment intents are disabled")
	}

	var email sendgrid.EmailService
	if cfg.SendGrid.APIKey != "" && cfg.SendGrid.FromEmail != "" {
		email = sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		slog.Warn("SendGrid is not configured, order emails are disabled")
	}

	jwtKey := []byte(cfg.Security.JWTKey)
	tokenTTL := time.Duration(cfg.Security.JWTExpiryHours) * time.Hour

	userService := service.NewUserService(repos.User, rateLimiter, jwtKey, tokenTTL)
	productService := service.NewProductService(repos.Product, productCache, cfg.Cache.DefaultTTL)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Product, productCache, payments, email, cfg.Stripe.Currency)
	shipperService := service.NewShipperService(repos.Shipper, repos.Order)
	wishlistService := service.NewWishlistService(repos.Wishlist)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userService.EnsureAdmin(bootstrapCtx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		slog.Error("❌ Error creating the bootstrap admin", slog.String("error", err.Error()))
		cancelBootstrap()
		os.Exit(1)
	}
	cancelBootstrap()

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	shipperHandler := handlers.NewShipperHandler(shipperService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	auth := middleware.NewAuthMiddleware(jwtKey, userService)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/auth/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/auth/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/auth/me", auth.Authenticate(userHandler.Me()))

	routerMux.HandleFunc("POST /api/v1/products", auth.Admin(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", auth.Admin(productHandler.UpdateProduct()))
	routerMux.HandleFunc("GET /api/v1/products", auth.OptionalAuthenticate(productHandler.ListProducts()))
	routerMux.HandleFunc("GET /api/v1/products/search", auth.OptionalAuthenticate(productHandler.SearchProducts()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", auth.OptionalAuthenticate(productHandler.GetProduct()))

	routerMux.HandleFunc("POST /api/v1/carts/items", auth.Authenticate(cartHandler.AddItems()))
	routerMux.HandleFunc("GET /api/v1/carts", auth.Authenticate(cartHandler.ListCarts()))
	routerMux.HandleFunc("GET /api/v1/carts/{id}", auth.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("DELETE /api/v1/carts/{id}", auth.Authenticate(cartHandler.DeleteCart()))
	routerMux.HandleFunc("DELETE /api/v1/carts/{id}/items/{productId}", auth.Authenticate(cartHandler.DeleteItem()))

	routerMux.HandleFunc("POST /api/v1/orders", auth.Authenticate(orderHandler.ConfirmOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", auth.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", auth.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("POST /api/v1/orders/{id}/payment-intent", auth.Authenticate(orderHandler.CreatePaymentIntent()))

	routerMux.HandleFunc("GET /api/v1/wishlist", auth.Authenticate(wishlistHandler.ListItems()))
	routerMux.HandleFunc("POST /api/v1/wishlist/{productId}", auth.Authenticate(wishlistHandler.AddItem()))
	routerMux.HandleFunc("DELETE /api/v1/wishlist/{productId}", auth.Authenticate(wishlistHandler.RemoveItem()))

	routerMux.HandleFunc("POST /api/v1/shippers", auth.Admin(shipperHandler.CreateShippers()))
	routerMux.HandleFunc("GET /api/v1/shippers", auth.Admin(shipperHandler.ListShippers()))
	routerMux.HandleFunc("POST /api/v1/shipments", auth.Admin(shipperHandler.CreateShipment()))

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining; metrics sits directly on the mux to read the matched pattern
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "http.server")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
