package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/altpay/wallet/internal/application/ports"
)

// projectTagValue tags every table this service creates.
const projectTagValue = "wallet"

// API is the subset of the DynamoDB client the store depends on.
// Narrowing the surface keeps the store testable without a live
// endpoint.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	UpdateTimeToLive(ctx context.Context, params *dynamodb.UpdateTimeToLiveInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateTimeToLiveOutput, error)
}

// Store implements ports.Store and ports.TableAdmin on a single
// DynamoDB table.
type Store struct {
	client  API
	factory *ItemFactory
	logger  *slog.Logger

	tableName     string
	pkAttribute   string
	ttlAttribute  string
	readCapacity  int64
	writeCapacity int64
	waitTimeout   time.Duration
}

var (
	_ ports.Store      = (*Store)(nil)
	_ ports.TableAdmin = (*Store)(nil)
)

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithCapacity sets the provisioned throughput used by CreateTable.
func WithCapacity(read, write int64) StoreOption {
	return func(s *Store) {
		s.readCapacity = read
		s.writeCapacity = write
	}
}

// WithTTLAttribute sets the attribute CreateTable enables item expiry
// on. Empty disables TTL.
func WithTTLAttribute(attribute string) StoreOption {
	return func(s *Store) { s.ttlAttribute = attribute }
}

// WithWaitTimeout bounds how long table lifecycle waiters block.
func WithWaitTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.waitTimeout = d }
}

// WithStoreLogger sets the store logger.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a Store over tableName.
func NewStore(client API, tableName string, opts ...StoreOption) *Store {
	s := &Store{
		client:        client,
		factory:       NewItemFactory(tableName),
		logger:        slog.Default(),
		tableName:     tableName,
		pkAttribute:   pkAttributeName,
		ttlAttribute:  "ttl",
		readCapacity:  1,
		writeCapacity: 1,
		waitTimeout:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Factory returns the item factory bound to this store's table.
func (s *Store) Factory() *ItemFactory {
	return s.factory
}

// ============================================
// Item operations
// ============================================

// Get loads the item under pk, projecting only the named attributes
// when given. The pk attribute is stripped from the result and numeric
// attributes come back as decimal strings.
func (s *Store) Get(ctx context.Context, pk string, attributes ...string) (ports.Item, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			s.pkAttribute: &types.AttributeValueMemberS{Value: pk},
		},
	}

	if len(attributes) > 0 {
		names := make(map[string]string, len(attributes))
		parts := make([]string, len(attributes))
		for i, attr := range attributes {
			placeholder := fmt.Sprintf("#a%d", i)
			names[placeholder] = attr
			parts[i] = placeholder
		}
		input.ProjectionExpression = aws.String(strings.Join(parts, ","))
		input.ExpressionAttributeNames = names
	}

	out, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, translateError(err)
	}

	// A missing item produces a response without an Item element.
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("%w: pk=%s", ports.ErrItemNotFound, pk)
	}

	item := make(ports.Item, len(out.Item))
	for name, av := range out.Item {
		if name == s.pkAttribute {
			continue
		}
		item[name] = nativeValue(av)
	}
	return item, nil
}

// Put executes a single prepared conditional write outside a batch.
func (s *Store) Put(ctx context.Context, item ports.TransactItem) error {
	prepared, err := s.prepared(item)
	if err != nil {
		return err
	}
	if prepared.write.Put == nil {
		return fmt.Errorf("%w: item for %s is not a put", ports.ErrInvalidArgument, prepared.pk)
	}

	put := prepared.write.Put
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                put.TableName,
		Item:                     put.Item,
		ConditionExpression:      put.ConditionExpression,
		ExpressionAttributeNames: put.ExpressionAttributeNames,
	})
	return translateError(err)
}

// Delete removes the item under pk. A missing item reports
// ErrItemNotFound instead of a bare failed condition.
func (s *Store) Delete(ctx context.Context, pk string) error {
	key, condition, names := s.factory.deleteIfExists(pk)

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.tableName),
		Key:                      key,
		ConditionExpression:      condition,
		ExpressionAttributeNames: names,
	})
	if err != nil {
		translated := translateError(err)
		if isConditionalCheckFailed(translated) {
			return fmt.Errorf("%w: pk=%s", ports.ErrItemNotFound, pk)
		}
		return translated
	}
	return nil
}

// TransactWrite executes the batch atomically. Batches above
// MaxTransactItems are rejected before any network call.
func (s *Store) TransactWrite(ctx context.Context, items ...ports.TransactItem) error {
	if len(items) > ports.MaxTransactItems {
		return fmt.Errorf("%w: got %d", ports.ErrTooManyOperations, len(items))
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: empty transaction batch", ports.ErrInvalidArgument)
	}

	writes := make([]types.TransactWriteItem, len(items))
	for i, item := range items {
		prepared, err := s.prepared(item)
		if err != nil {
			return err
		}
		writes[i] = prepared.write
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	return translateError(err)
}

// prepared unwraps a factory-built item and surfaces any deferred
// marshalling failure.
func (s *Store) prepared(item ports.TransactItem) (transactItem, error) {
	prepared, ok := item.(transactItem)
	if !ok {
		return transactItem{}, fmt.Errorf("%w: foreign transact item %T", ports.ErrInvalidArgument, item)
	}
	if prepared.err != nil {
		return transactItem{}, prepared.err
	}
	return prepared, nil
}

// ============================================
// Table lifecycle
// ============================================

// CreateTable provisions the table, waits for it to become active and
// enables TTL. An already existing table logs a warning and proceeds
// to the waiter, which makes the operation idempotent.
func (s *Store) CreateTable(ctx context.Context) error {
	_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.tableName),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(s.pkAttribute), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(s.pkAttribute), AttributeType: types.ScalarAttributeTypeS},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(s.readCapacity),
			WriteCapacityUnits: aws.Int64(s.writeCapacity),
		},
		Tags: []types.Tag{
			{Key: aws.String("Project"), Value: aws.String(projectTagValue)},
		},
	})
	if err != nil {
		if !isResourceInUse(err) {
			return translateError(err)
		}
		s.logger.WarnContext(ctx, "table already exists",
			slog.String("table", s.tableName),
		)
	}

	s.logger.InfoContext(ctx, "waiting for table to become active",
		slog.String("table", s.tableName),
	)

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	}, s.waitTimeout); err != nil {
		return translateError(err)
	}

	if s.ttlAttribute != "" {
		if err := s.enableTimeToLive(ctx); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "table is active", slog.String("table", s.tableName))
	return nil
}

// DropTable deletes the table and all of its items, waiting until the
// deletion completes.
func (s *Store) DropTable(ctx context.Context) error {
	_, err := s.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return translateError(err)
	}

	waiter := dynamodb.NewTableNotExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	}, s.waitTimeout); err != nil {
		return translateError(err)
	}

	s.logger.InfoContext(ctx, "table dropped", slog.String("table", s.tableName))
	return nil
}

// TableExists reports whether the table is present.
func (s *Store) TableExists(ctx context.Context) (bool, error) {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		if isResourceNotFound(err) {
			return false, nil
		}
		return false, translateError(err)
	}
	return true, nil
}

func (s *Store) enableTimeToLive(ctx context.Context) error {
	_, err := s.client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(s.tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			Enabled:       aws.Bool(true),
			AttributeName: aws.String(s.ttlAttribute),
		},
	})
	if err != nil {
		return translateError(err)
	}

	s.logger.InfoContext(ctx, "time to live enabled",
		slog.String("table", s.tableName),
		slog.String("attribute", s.ttlAttribute),
	)
	return nil
}

// ============================================
// Value decoding
// ============================================

// nativeValue converts an attribute value into its native Go form.
// Numbers stay as decimal strings; DynamoDB keeps them at arbitrary
// precision and converting through float64 would corrupt large
// balances.
func nativeValue(av types.AttributeValue) interface{} {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberBOOL:
		return v.Value
	case *types.AttributeValueMemberNULL:
		return nil
	case *types.AttributeValueMemberM:
		m := make(map[string]interface{}, len(v.Value))
		for name, nested := range v.Value {
			m[name] = nativeValue(nested)
		}
		return m
	case *types.AttributeValueMemberL:
		l := make([]interface{}, len(v.Value))
		for i, nested := range v.Value {
			l[i] = nativeValue(nested)
		}
		return l
	case *types.AttributeValueMemberSS:
		return v.Value
	case *types.AttributeValueMemberNS:
		return v.Value
	case *types.AttributeValueMemberB:
		return v.Value
	default:
		return av
	}
}
