// Package container is the composition root: it builds every
// dependency in order, hands out getters, and tears the application
// down gracefully.
package container

import (
	"context"
	"fmt"
	"log/slog"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/altpay/wallet/internal/adapters/http"
	"github.com/altpay/wallet/internal/application/usecases/wallet"
	"github.com/altpay/wallet/internal/config"
	domainwallet "github.com/altpay/wallet/internal/domain/wallet"
	dynamostore "github.com/altpay/wallet/internal/infrastructure/persistence/dynamodb"
	"github.com/altpay/wallet/internal/pkg/logger"
)

// ============================================
// Container
// ============================================

// Container wires configuration, storage, the wallet engine, use
// cases and the HTTP server together.
type Container struct {
	config *config.Config
	logger *slog.Logger

	version   string
	buildTime string

	// Infrastructure
	client  *awsdynamodb.Client
	store   *dynamostore.Store
	factory *dynamostore.ItemFactory

	// Domain
	engine *domainwallet.Engine

	// Use cases
	createWalletUC  *wallet.CreateWalletUseCase
	depositFundsUC  *wallet.DepositFundsUseCase
	transferFundsUC *wallet.TransferFundsUseCase
	getBalanceUC    *wallet.GetBalanceUseCase

	// HTTP
	httpServer *http.Server
}

// New creates a container around the configuration.
func New(cfg *config.Config) *Container {
	return &Container{
		config:    cfg,
		version:   cfg.App.Version,
		buildTime: "unknown",
	}
}

// WithBuildInfo overrides the version and build time reported by the
// health endpoint. Meant to be fed from -ldflags.
func (c *Container) WithBuildInfo(version, buildTime string) *Container {
	c.version = version
	c.buildTime = buildTime
	return c
}

// ============================================
// Initialization
// ============================================

// Initialize builds every dependency. Order matters: logger, storage,
// engine, use cases, HTTP server.
func (c *Container) Initialize(ctx context.Context) error {
	c.initLogger()
	c.logger.Info("Initializing application container...")

	if err := c.initStorage(ctx); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.logger.Info("DynamoDB client ready",
		slog.String("table", c.config.DynamoDB.TableName))

	c.initEngine()
	c.initUseCases()
	c.logger.Info("Use cases initialized")

	c.initHTTPServer()
	c.logger.Info("HTTP server initialized")

	return nil
}

func (c *Container) initLogger() {
	logger.Setup(&logger.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		AddSource: c.config.App.Debug,
	})
	c.logger = logger.L()
}

func (c *Container) initStorage(ctx context.Context) error {
	client, err := dynamostore.NewClient(ctx, dynamostore.ClientConfig{
		AccessKeyID:        c.config.AWS.AccessKeyID,
		SecretAccessKey:    c.config.AWS.SecretAccessKey,
		Region:             c.config.AWS.Region,
		EndpointURL:        c.config.DynamoDB.EndpointURL,
		MaxAttempts:        c.config.AWS.MaxAttempts,
		ConnectTimeout:     c.config.AWS.ConnectTimeout,
		ReadTimeout:        c.config.AWS.ReadTimeout,
		MaxPoolConnections: c.config.AWS.MaxPoolConnections,
	})
	if err != nil {
		return err
	}

	c.client = client
	c.store = dynamostore.NewStore(client, c.config.DynamoDB.TableName,
		dynamostore.WithCapacity(c.config.DynamoDB.ReadCapacity, c.config.DynamoDB.WriteCapacity),
		dynamostore.WithStoreLogger(c.logger),
	)
	c.factory = c.store.Factory()

	// The table is managed by the createtable command; a missing table
	// is reported, not fatal, so the readiness probe can tell the story.
	if exists, err := c.store.TableExists(ctx); err != nil {
		c.logger.Warn("Could not verify wallet table", slog.String("error", err.Error()))
	} else if !exists {
		c.logger.Warn("Wallet table does not exist, run the createtable command",
			slog.String("table", c.config.DynamoDB.TableName))
	}

	return nil
}

func (c *Container) initEngine() {
	c.engine = domainwallet.NewEngine(c.store, c.factory, c.config.Wallet.TransactionTTL,
		domainwallet.WithLogger(c.logger))
}

func (c *Container) initUseCases() {
	c.createWalletUC = wallet.NewCreateWalletUseCase(c.engine)
	c.depositFundsUC = wallet.NewDepositFundsUseCase(c.engine)
	c.transferFundsUC = wallet.NewTransferFundsUseCase(c.engine)
	c.getBalanceUC = wallet.NewGetBalanceUseCase(c.engine)
}

func (c *Container) initHTTPServer() {
	routerConfig := &http.RouterConfig{
		Logger:         c.logger,
		Tables:         c.store,
		Version:        c.version,
		BuildTime:      c.buildTime,
		Environment:    c.config.App.Environment,
		AllowedOrigins: c.config.CORS.AllowedOrigins,
	}

	router := http.NewRouterBuilder(routerConfig).
		WithWalletUseCases(&http.WalletUseCases{
			CreateWallet:  c.createWalletUC,
			DepositFunds:  c.depositFundsUC,
			TransferFunds: c.transferFundsUC,
			GetBalance:    c.getBalanceUC,
		}).
		Build()

	serverConfig := &http.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            fmt.Sprintf("%d", c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}

	c.httpServer = http.NewServer(serverConfig, router)
}

// ============================================
// Getters
// ============================================

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Store returns the DynamoDB-backed store.
func (c *Container) Store() *dynamostore.Store {
	return c.store
}

// Engine returns the wallet engine.
func (c *Container) Engine() *domainwallet.Engine {
	return c.engine
}

// HTTPServer returns the HTTP server.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// CreateWalletUseCase returns the wallet creation use case.
func (c *Container) CreateWalletUseCase() *wallet.CreateWalletUseCase {
	return c.createWalletUC
}

// DepositFundsUseCase returns the deposit use case.
func (c *Container) DepositFundsUseCase() *wallet.DepositFundsUseCase {
	return c.depositFundsUC
}

// TransferFundsUseCase returns the transfer use case.
func (c *Container) TransferFundsUseCase() *wallet.TransferFundsUseCase {
	return c.transferFundsUC
}

// GetBalanceUseCase returns the balance query use case.
func (c *Container) GetBalanceUseCase() *wallet.GetBalanceUseCase {
	return c.getBalanceUC
}

// ============================================
// Run / Shutdown
// ============================================

// Run starts the HTTP server and blocks until a shutdown signal.
func (c *Container) Run() error {
	c.logger.Info("Starting wallet API server",
		slog.String("version", c.version),
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
	)

	return c.httpServer.Run()
}

// Shutdown stops the HTTP server. The DynamoDB client holds no
// connections that need closing.
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
	}

	c.logger.Info("Container shutdown complete")
	return nil
}
