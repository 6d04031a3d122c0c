package dynamodb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/altpay/wallet/internal/application/ports"
)

// pkAttributeName is the partition key attribute of the table.
const pkAttributeName = "pk"

// transactItem wraps one prepared TransactWriteItems action. A
// marshalling failure is carried inside and surfaces when the item is
// executed, keeping the factory methods cheap and infallible where the
// port requires it.
type transactItem struct {
	pk    string
	write types.TransactWriteItem
	err   error
}

// Key returns the primary key the write targets.
func (t transactItem) Key() string { return t.pk }

// ItemFactory builds conditional write actions for the wallet table.
// The produced values plug directly into TransactWriteItems.
type ItemFactory struct {
	tableName   string
	pkAttribute string
}

var _ ports.ItemFactory = (*ItemFactory)(nil)

// NewItemFactory creates a factory bound to tableName.
func NewItemFactory(tableName string) *ItemFactory {
	return &ItemFactory{
		tableName:   tableName,
		pkAttribute: pkAttributeName,
	}
}

// PutIfAbsent prepares a Put conditioned on the key not existing yet.
func (f *ItemFactory) PutIfAbsent(pk string, data ports.Item) ports.TransactItem {
	av, err := attributevalue.MarshalMap(map[string]interface{}(data))
	if err != nil {
		return transactItem{pk: pk, err: fmt.Errorf("%w: marshal item %s: %v", ports.ErrInvalidArgument, pk, err)}
	}
	av[f.pkAttribute] = &types.AttributeValueMemberS{Value: pk}

	return transactItem{
		pk: pk,
		write: types.TransactWriteItem{
			Put: &types.Put{
				TableName:                aws.String(f.tableName),
				Item:                     av,
				ConditionExpression:      aws.String("attribute_not_exists(#key)"),
				ExpressionAttributeNames: map[string]string{"#key": f.pkAttribute},
			},
		},
	}
}

// AddIfExists prepares an Update incrementing attribute by n,
// conditioned on the item already carrying that attribute.
func (f *ItemFactory) AddIfExists(pk, attribute, n string) (ports.TransactItem, error) {
	if err := validateIncrement(pk, n); err != nil {
		return nil, err
	}

	return transactItem{
		pk: pk,
		write: types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(f.tableName),
				Key: map[string]types.AttributeValue{
					f.pkAttribute: &types.AttributeValueMemberS{Value: pk},
				},
				UpdateExpression:    aws.String("SET #key = #key + :n"),
				ConditionExpression: aws.String("attribute_exists(#key)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":n": &types.AttributeValueMemberN{Value: n},
				},
				ExpressionAttributeNames: map[string]string{"#key": attribute},
			},
		},
	}, nil
}

// SubtractIfAtLeast prepares an Update decrementing attribute by n,
// conditioned on the current value covering n. A missing item fails
// the condition the same way a short balance does.
func (f *ItemFactory) SubtractIfAtLeast(pk, attribute, n string) (ports.TransactItem, error) {
	if err := validateIncrement(pk, n); err != nil {
		return nil, err
	}

	return transactItem{
		pk: pk,
		write: types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(f.tableName),
				Key: map[string]types.AttributeValue{
					f.pkAttribute: &types.AttributeValueMemberS{Value: pk},
				},
				UpdateExpression:    aws.String("SET #key = #key - :n"),
				ConditionExpression: aws.String("#key >= :n"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":n": &types.AttributeValueMemberN{Value: n},
				},
				ExpressionAttributeNames: map[string]string{"#key": attribute},
			},
		},
	}, nil
}

// deleteIfExists prepares the DeleteItem condition used by
// Store.Delete.
func (f *ItemFactory) deleteIfExists(pk string) (map[string]types.AttributeValue, *string, map[string]string) {
	key := map[string]types.AttributeValue{
		f.pkAttribute: &types.AttributeValueMemberS{Value: pk},
	}
	return key, aws.String("attribute_exists(#key)"), map[string]string{"#key": f.pkAttribute}
}

var incrementPattern = regexp.MustCompile(`^\d+$`)

// validateIncrement rejects non-positive increments locally, before
// anything reaches the wire.
func validateIncrement(pk, n string) error {
	if !incrementPattern.MatchString(n) {
		return fmt.Errorf("%w: increment for %s must be a decimal integer, got %q", ports.ErrInvalidArgument, pk, n)
	}
	if strings.Trim(n, "0") == "" {
		return fmt.Errorf("%w: increment for %s must be positive", ports.ErrInvalidArgument, pk)
	}
	return nil
}
