package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

const (
	attrID   = "id"
	attrName = "name"
)

// DynamoAPI is the subset of *dynamodb.Client used by DynamoStore.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoStore keeps products in a table keyed by the decimal string of the id.
type DynamoStore struct {
	client DynamoAPI
	table  string
	log    *zap.Logger
}

func NewDynamoStore(client DynamoAPI, table string, log *zap.Logger) *DynamoStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &DynamoStore{client: client, table: table, log: log}
}

func (s *DynamoStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(s.table),
		})
		return dynamoErr("describe table", err)
	})
}

func (s *DynamoStore) Get(ctx context.Context, id int64) (Product, error) {
	var out *dynamodb.GetItemOutput

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		out, err = s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(s.table),
			Key: map[string]dtypes.AttributeValue{
				attrID: &dtypes.AttributeValueMemberS{Value: formatID(id)},
			},
			ProjectionExpression:     aws.String("#id, #name"),
			ExpressionAttributeNames: projectionNames(),
		})
		return dynamoErr("get item", err)
	})
	if err != nil {
		return Product{}, err
	}
	if len(out.Item) == 0 {
		return Product{}, ErrNotFound
	}

	name, ok := stringAttr(out.Item, attrName)
	if !ok {
		return Product{}, fmt.Errorf("%w: item %d has no string %q attribute", ErrStoreUnavailable, id, attrName)
	}
	return Product{ID: id, Name: name}, nil
}

func (s *DynamoStore) Put(ctx context.Context, p Product) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.table),
			Item: map[string]dtypes.AttributeValue{
				attrID:   &dtypes.AttributeValueMemberS{Value: formatID(p.ID)},
				attrName: &dtypes.AttributeValueMemberS{Value: p.Name},
			},
		})
		return dynamoErr("put item", err)
	})
}

func (s *DynamoStore) Scan(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, 16)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		pages := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
			TableName:                aws.String(s.table),
			ProjectionExpression:     aws.String("#id, #name"),
			ExpressionAttributeNames: projectionNames(),
		})

		for pages.HasMorePages() {
			page, err := pages.NextPage(ctx)
			if err != nil {
				return dynamoErr("scan", err)
			}
			for _, item := range page.Items {
				p, ok := productFromItem(item)
				if !ok {
					s.log.Warn("skipping malformed product item", zap.Strings("item_keys", itemKeys(item)))
					continue
				}
				out = append(out, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// name is a DynamoDB reserved word.
func projectionNames() map[string]string {
	return map[string]string{"#id": attrID, "#name": attrName}
}

func productFromItem(item map[string]dtypes.AttributeValue) (Product, bool) {
	rawID, ok := stringAttr(item, attrID)
	if !ok {
		return Product{}, false
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Product{}, false
	}
	name, ok := stringAttr(item, attrName)
	if !ok {
		return Product{}, false
	}
	return Product{ID: id, Name: name}, true
}

func stringAttr(item map[string]dtypes.AttributeValue, key string) (string, bool) {
	v, ok := item[key].(*dtypes.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return v.Value, true
}

func itemKeys(item map[string]dtypes.AttributeValue) []string {
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	return keys
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func dynamoErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: dynamodb %s: %s: %s", ErrStoreUnavailable, op, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("%w: dynamodb %s: %v", ErrStoreUnavailable, op, err)
}
