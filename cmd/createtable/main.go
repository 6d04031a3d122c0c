// Command createtable manages the DynamoDB wallet table.
//
// Commands: create (default), drop, status. Creating an existing table
// is not an error, the command warns and exits cleanly so deploy
// scripts can run it unconditionally.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/altpay/wallet/internal/config"
	dynamostore "github.com/altpay/wallet/internal/infrastructure/persistence/dynamodb"
)

func main() {
	var (
		command   string
		tableName string
		timeout   time.Duration
	)

	flag.StringVar(&command, "command", "create", "Command: create, drop, status")
	flag.StringVar(&tableName, "table", "", "Table name (overrides WALLET_TABLE_NAME)")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall operation timeout")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if tableName != "" {
		cfg.DynamoDB.TableName = tableName
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := dynamostore.NewClient(ctx, dynamostore.ClientConfig{
		AccessKeyID:        cfg.AWS.AccessKeyID,
		SecretAccessKey:    cfg.AWS.SecretAccessKey,
		Region:             cfg.AWS.Region,
		EndpointURL:        cfg.DynamoDB.EndpointURL,
		MaxAttempts:        cfg.AWS.MaxAttempts,
		ConnectTimeout:     cfg.AWS.ConnectTimeout,
		ReadTimeout:        cfg.AWS.ReadTimeout,
		MaxPoolConnections: cfg.AWS.MaxPoolConnections,
	})
	if err != nil {
		log.Fatalf("failed to create DynamoDB client: %v", err)
	}

	store := dynamostore.NewStore(client, cfg.DynamoDB.TableName,
		dynamostore.WithCapacity(cfg.DynamoDB.ReadCapacity, cfg.DynamoDB.WriteCapacity),
	)

	switch command {
	case "create":
		exists, err := store.TableExists(ctx)
		if err != nil {
			log.Fatalf("failed to check table %q: %v", cfg.DynamoDB.TableName, err)
		}
		if exists {
			fmt.Printf("Warning: table %q already exists, nothing to do\n", cfg.DynamoDB.TableName)
			return
		}
		if err := store.CreateTable(ctx); err != nil {
			log.Fatalf("failed to create table %q: %v", cfg.DynamoDB.TableName, err)
		}
		fmt.Printf("Table %q created\n", cfg.DynamoDB.TableName)

	case "drop":
		exists, err := store.TableExists(ctx)
		if err != nil {
			log.Fatalf("failed to check table %q: %v", cfg.DynamoDB.TableName, err)
		}
		if !exists {
			fmt.Printf("Table %q does not exist, nothing to do\n", cfg.DynamoDB.TableName)
			return
		}
		if err := store.DropTable(ctx); err != nil {
			log.Fatalf("failed to drop table %q: %v", cfg.DynamoDB.TableName, err)
		}
		fmt.Printf("Table %q dropped\n", cfg.DynamoDB.TableName)

	case "status":
		exists, err := store.TableExists(ctx)
		if err != nil {
			log.Fatalf("failed to check table %q: %v", cfg.DynamoDB.TableName, err)
		}
		if exists {
			fmt.Printf("Table %q exists\n", cfg.DynamoDB.TableName)
		} else {
			fmt.Printf("Table %q does not exist\n", cfg.DynamoDB.TableName)
			os.Exit(1)
		}

	default:
		log.Fatalf("unknown command: %s\nAvailable commands: create, drop, status", command)
	}
}
