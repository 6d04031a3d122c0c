// Package config - application configuration management.
//
// Viper-backed, loaded from (highest priority first):
// 1. Environment variables (WALLET_ prefix)
// 2. Config file
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ============================================
// Main Configuration
// ============================================

// Config is the top-level application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	AWS       AWSConfig       `mapstructure:"aws"`
	DynamoDB  DynamoDBConfig  `mapstructure:"dynamodb"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ============================================
// App Configuration
// ============================================

// AppConfig describes the running application.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
}

// IsDevelopment reports whether the environment is development.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the environment is production.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// ============================================
// Server Configuration
// ============================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the host:port the server listens on.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ============================================
// AWS Configuration
// ============================================

// AWSConfig holds credentials and client tuning for the AWS SDK.
type AWSConfig struct {
	AccessKeyID        string        `mapstructure:"access_key_id"`
	SecretAccessKey    string        `mapstructure:"secret_access_key"`
	Region             string        `mapstructure:"region"`
	MaxAttempts        int           `mapstructure:"max_attempts"`
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	MaxPoolConnections int           `mapstructure:"max_pool_connections"`
}

// ============================================
// DynamoDB Configuration
// ============================================

// DynamoDBConfig holds table and endpoint settings.
type DynamoDBConfig struct {
	EndpointURL   string `mapstructure:"endpoint_url"` // empty = default AWS endpoint
	TableName     string `mapstructure:"table_name"`
	ReadCapacity  int64  `mapstructure:"read_capacity"`
	WriteCapacity int64  `mapstructure:"write_capacity"`
}

// ============================================
// Wallet Configuration
// ============================================

// WalletConfig holds domain tunables.
type WalletConfig struct {
	// TransactionTTL is how long idempotency records stay visible.
	// Replays inside this window are rejected; afterwards DynamoDB
	// expires the record and the nonce may be reused.
	TransactionTTL time.Duration `mapstructure:"transaction_ttl"`
}

// ============================================
// CORS Configuration
// ============================================

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	ExposedHeaders   []string      `mapstructure:"exposed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// ============================================
// Rate Limit Configuration
// ============================================

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	RequestsPerMinute  int           `mapstructure:"requests_per_minute"`
	BurstSize          int           `mapstructure:"burst_size"`
	FinancialOpsPerMin int           `mapstructure:"financial_ops_per_min"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
}

// ============================================
// Log Configuration
// ============================================

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
	Output string `mapstructure:"output"` // stdout, stderr
}

// ============================================
// Configuration Loading
// ============================================

// Load reads configuration from a file plus environment variables.
//
// configPath is the directory holding the config file, configName the
// file name without extension. A missing file is not an error; defaults
// and env vars still apply.
func Load(configPath, configName string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/wallet")

	v.SetEnvPrefix("WALLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv reads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("WALLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "wallet")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// AWS defaults
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.max_attempts", 3)
	v.SetDefault("aws.connect_timeout", "5s")
	v.SetDefault("aws.read_timeout", "10s")
	v.SetDefault("aws.max_pool_connections", 100)

	// DynamoDB defaults
	v.SetDefault("dynamodb.endpoint_url", "")
	v.SetDefault("dynamodb.table_name", "wallet")
	v.SetDefault("dynamodb.read_capacity", 10)
	v.SetDefault("dynamodb.write_capacity", 10)

	// Wallet defaults
	v.SetDefault("wallet.transaction_ttl", "1800s")

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", "12h")

	// Rate Limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 100)
	v.SetDefault("rate_limit.burst_size", 20)
	v.SetDefault("rate_limit.financial_ops_per_min", 30)
	v.SetDefault("rate_limit.cleanup_interval", "1m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
}

// bindEnvVars binds the flat env var aliases used in deployment.
func bindEnvVars(v *viper.Viper) {
	// Server
	_ = v.BindEnv("server.host", "WALLET_HOST", "HOST")
	_ = v.BindEnv("server.port", "WALLET_PORT", "PORT")

	// AWS credentials and client tuning
	_ = v.BindEnv("aws.access_key_id", "WALLET_AWS_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("aws.secret_access_key", "WALLET_AWS_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")
	_ = v.BindEnv("aws.region", "WALLET_AWS_REGION_NAME", "AWS_REGION")
	_ = v.BindEnv("aws.max_attempts", "WALLET_AWS_CLIENT_MAX_ATTEMPTS")
	_ = v.BindEnv("aws.connect_timeout", "WALLET_AWS_CLIENT_CONNECT_TIMEOUT")
	_ = v.BindEnv("aws.read_timeout", "WALLET_AWS_CLIENT_READ_TIMEOUT")
	_ = v.BindEnv("aws.max_pool_connections", "WALLET_AWS_CLIENT_MAX_POOL_CONNECTIONS")

	// DynamoDB
	_ = v.BindEnv("dynamodb.endpoint_url", "WALLET_AWS_DYNAMODB_ENDPOINT_URL")
	_ = v.BindEnv("dynamodb.table_name", "WALLET_TABLE_NAME")
	_ = v.BindEnv("dynamodb.read_capacity", "WALLET_AWS_DYNAMODB_READ_CAPACITY")
	_ = v.BindEnv("dynamodb.write_capacity", "WALLET_AWS_DYNAMODB_WRITE_CAPACITY")

	// Wallet
	_ = v.BindEnv("wallet.transaction_ttl", "WALLET_TRANSACTION_TTL")

	// App
	_ = v.BindEnv("app.environment", "WALLET_ENVIRONMENT", "ENVIRONMENT", "ENV")

	// Log
	_ = v.BindEnv("log.level", "WALLET_LOG_LEVEL", "LOG_LEVEL")
}

// ============================================
// Configuration Validation
// ============================================

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.App.IsProduction() {
		if c.AWS.AccessKeyID == "" || c.AWS.SecretAccessKey == "" {
			return fmt.Errorf("AWS credentials are required in production")
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.DynamoDB.TableName == "" {
		return fmt.Errorf("dynamodb table name is required")
	}

	if c.DynamoDB.ReadCapacity <= 0 || c.DynamoDB.WriteCapacity <= 0 {
		return fmt.Errorf("dynamodb capacity units must be positive")
	}

	if c.Wallet.TransactionTTL <= 0 {
		return fmt.Errorf("wallet transaction TTL must be positive")
	}

	return nil
}

// ============================================
// Development Helpers
// ============================================

// Development returns a configuration suitable for local development
// against dynamodb-local.
func Development() *Config {
	return &Config{
		App: AppConfig{
			Name:        "wallet",
			Version:     "dev",
			Environment: "development",
			Debug:       true,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		AWS: AWSConfig{
			AccessKeyID:        "local",
			SecretAccessKey:    "local",
			Region:             "us-east-1",
			MaxAttempts:        3,
			ConnectTimeout:     5 * time.Second,
			ReadTimeout:        10 * time.Second,
			MaxPoolConnections: 100,
		},
		DynamoDB: DynamoDBConfig{
			EndpointURL:   "http://localhost:8000",
			TableName:     "wallet",
			ReadCapacity:  10,
			WriteCapacity: 10,
		},
		Wallet: WalletConfig{
			TransactionTTL: 1800 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:            true,
			RequestsPerMinute:  100,
			BurstSize:          20,
			FinancialOpsPerMin: 30,
			CleanupInterval:    time.Minute,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Test returns a configuration for tests.
func Test() *Config {
	cfg := Development()
	cfg.App.Environment = "test"
	cfg.DynamoDB.TableName = "wallet_test"
	cfg.Log.Level = "error"
	return cfg
}
