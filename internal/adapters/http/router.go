// Router composition.
//
// All handlers and middleware come together here: the builder takes
// the use cases, applies the middleware chain and registers every
// route.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/altpay/wallet/internal/adapters/http/common"
	"github.com/altpay/wallet/internal/adapters/http/handlers"
	"github.com/altpay/wallet/internal/adapters/http/middleware"
	"github.com/altpay/wallet/internal/application/ports"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig configures the router.
type RouterConfig struct {
	// Logger for the middleware chain
	Logger *slog.Logger
	// Tables backs the readiness probe. May be nil.
	Tables ports.TableAdmin
	// Version of the application
	Version string
	// BuildTime of the binary
	BuildTime string
	// Environment: development, staging or production
	Environment string
	// AllowedOrigins for CORS in production
	AllowedOrigins []string
}

// DefaultRouterConfig returns a development configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:         slog.Default(),
		Version:        "dev",
		BuildTime:      "unknown",
		Environment:    "development",
		AllowedOrigins: []string{"*"},
	}
}

// ============================================
// Use Case Providers
// ============================================

// WalletUseCases bundles the wallet use cases for the handler.
type WalletUseCases struct {
	CreateWallet  handlers.CreateWalletUseCase
	DepositFunds  handlers.DepositFundsUseCase
	TransferFunds handlers.TransferFundsUseCase
	GetBalance    handlers.GetBalanceUseCase
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder assembles the gin engine step by step.
type RouterBuilder struct {
	config  *RouterConfig
	wallets *WalletUseCases
}

// NewRouterBuilder creates a builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	return &RouterBuilder{
		config: config,
	}
}

// WithWalletUseCases sets the wallet use cases.
func (b *RouterBuilder) WithWalletUseCases(useCases *WalletUseCases) *RouterBuilder {
	b.wallets = useCases
	return b
}

// Build returns the configured gin engine.
func (b *RouterBuilder) Build() *gin.Engine {
	if b.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	handlers.SetupValidator()

	// ============================================
	// Global Middleware
	// ============================================

	// Recovery first, so panics anywhere below are caught
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           b.config.Logger,
		EnableStackTrace: b.config.Environment != "production",
	}))

	router.Use(middleware.RequestID())

	if b.config.Environment == "production" {
		router.Use(middleware.CORS(middleware.ProductionCORSConfig(b.config.AllowedOrigins)))
	} else {
		router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}

	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    b.config.Logger,
		SkipPaths: []string{"/health", "/live", "/ready", "/metrics"},
	}))

	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	router.Use(middleware.Metrics())

	// ============================================
	// Metrics Endpoint
	// ============================================

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ============================================
	// Health Check Routes
	// ============================================

	healthHandler := handlers.NewHealthHandler(
		b.config.Tables,
		b.config.Version,
		b.config.BuildTime,
	)
	healthHandler.RegisterRoutes(router)

	// ============================================
	// API v1 Routes
	// ============================================

	v1 := router.Group("/api/v1")

	if b.wallets != nil {
		walletHandler := handlers.NewWalletHandler(
			b.wallets.CreateWallet,
			b.wallets.DepositFunds,
			b.wallets.TransferFunds,
			b.wallets.GetBalance,
		)

		wallets := v1.Group("/wallets")
		{
			wallets.POST("/", walletHandler.CreateWallet)
			wallets.GET("/:wallet_id/balance", walletHandler.GetBalance)

			// Money movements with stricter rate limiting
			financialOps := wallets.Group("")
			financialOps.Use(middleware.FinancialRateLimit())
			{
				financialOps.PUT("/:wallet_id/deposit", walletHandler.Deposit)
				financialOps.PUT("/:wallet_id/transfer/:target_wallet_id", walletHandler.Transfer)
			}
		}
	}

	// ============================================
	// 404 Handler
	// ============================================

	router.NoRoute(func(c *gin.Context) {
		common.Error(c, http.StatusNotFound, common.ErrCodeNotFound,
			"endpoint not found: "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return router
}

// ============================================
// Quick Setup Functions
// ============================================

// NewRouter builds a router in one call.
func NewRouter(config *RouterConfig) *gin.Engine {
	return NewRouterBuilder(config).Build()
}
