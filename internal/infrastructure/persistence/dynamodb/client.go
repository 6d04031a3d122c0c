// Package dynamodb implements the persistence ports on Amazon
// DynamoDB: a single table keyed by the "pk" string attribute, with
// conditional writes grouped through TransactWriteItems.
package dynamodb

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// ClientConfig holds connection settings for the DynamoDB client.
type ClientConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	EndpointURL     string // empty = default AWS endpoint

	MaxAttempts        int
	ConnectTimeout     time.Duration
	ReadTimeout        time.Duration
	MaxPoolConnections int
}

// DefaultClientConfig returns client settings suitable for local
// development against dynamodb-local.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Region:             "us-east-1",
		MaxAttempts:        3,
		ConnectTimeout:     5 * time.Second,
		ReadTimeout:        10 * time.Second,
		MaxPoolConnections: 100,
	}
}

// NewClient builds a DynamoDB client from the configuration. The
// client is safe for concurrent use and meant to be created once at
// startup and shared.
func NewClient(ctx context.Context, cfg ClientConfig) (*dynamodb.Client, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("aws region is required")
	}

	httpClient := &http.Client{
		Timeout: cfg.ReadTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.MaxPoolConnections,
			MaxIdleConnsPerHost: cfg.MaxPoolConnections,
			DialContext: (&net.Dialer{
				Timeout: cfg.ConnectTimeout,
			}).DialContext,
		},
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMaxAttempts(cfg.MaxAttempts),
		awsconfig.WithHTTPClient(httpClient),
	}

	if accessKey := strings.TrimSpace(cfg.AccessKeyID); accessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, strings.TrimSpace(cfg.SecretAccessKey), ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	})

	return client, nil
}
