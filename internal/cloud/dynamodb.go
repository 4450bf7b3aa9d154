package cloud

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

// batchSize is the DynamoDB batch write limit.
const batchSize = 25

// DynamoDBClient stores each collection in its own table named
// prefix+collection, hash-keyed on "_id".
type DynamoDBClient struct {
	svc         *dynamodb.Client
	tablePrefix string
}

// NewDynamoDBClient creates a new DynamoDB document store.
func NewDynamoDBClient(ctx context.Context, region, tablePrefix string) (*DynamoDBClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &DynamoDBClient{
		svc:         dynamodb.NewFromConfig(cfg),
		tablePrefix: tablePrefix,
	}, nil
}

func (c *DynamoDBClient) table(collection string) *string {
	return aws.String(c.tablePrefix + collection)
}

// scanFilter builds an equality FilterExpression. Field names go through
// expression attribute names since stored keys contain spaces and parentheses.
func scanFilter(filter domain.Filter) (*string, map[string]string, map[string]types.AttributeValue) {
	if len(filter) == 0 {
		return nil, nil, nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make(map[string]string, len(keys))
	values := make(map[string]types.AttributeValue, len(keys))
	clauses := make([]string, len(keys))
	for i, k := range keys {
		n, v := fmt.Sprintf("#f%d", i), fmt.Sprintf(":v%d", i)
		names[n] = k
		values[v] = &types.AttributeValueMemberS{Value: filter[k]}
		clauses[i] = n + " = " + v
	}
	return aws.String(strings.Join(clauses, " AND ")), names, values
}

func (c *DynamoDBClient) scan(ctx context.Context, collection string, filter domain.Filter) ([]map[string]types.AttributeValue, error) {
	expr, names, values := scanFilter(filter)
	input := &dynamodb.ScanInput{
		TableName:                 c.table(collection),
		FilterExpression:          expr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(c.svc, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", collection, err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// Find returns matching items in scan order, which DynamoDB does not tie to
// insertion order.
func (c *DynamoDBClient) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	items, err := c.scan(ctx, collection, filter)
	if err != nil {
		return err
	}
	if items == nil {
		items = []map[string]types.AttributeValue{}
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", collection, err)
	}
	return nil
}

func (c *DynamoDBClient) Insert(ctx context.Context, collection string, docs ...any) error {
	requests := make([]types.WriteRequest, 0, len(docs))
	for i, d := range docs {
		item, err := attributevalue.MarshalMap(d)
		if err != nil {
			return fmt.Errorf("failed to marshal document %d: %w", i, err)
		}
		if _, ok := item["_id"]; !ok {
			item["_id"] = &types.AttributeValueMemberS{Value: uuid.NewString()}
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	return c.batchWrite(ctx, collection, requests)
}

func (c *DynamoDBClient) DeleteMany(ctx context.Context, collection string, filter domain.Filter) error {
	items, err := c.scan(ctx, collection, filter)
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{
			Key: map[string]types.AttributeValue{"_id": item["_id"]},
		}})
	}
	return c.batchWrite(ctx, collection, requests)
}

func (c *DynamoDBClient) batchWrite(ctx context.Context, collection string, requests []types.WriteRequest) error {
	table := aws.ToString(c.table(collection))
	for i := 0; i < len(requests); i += batchSize {
		end := min(i+batchSize, len(requests))

		out, err := c.svc.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{table: requests[i:end]},
		})
		if err != nil {
			return fmt.Errorf("failed to batch write %s: %w", collection, err)
		}
		if n := len(out.UnprocessedItems[table]); n > 0 {
			return fmt.Errorf("batch write %s left %d unprocessed items", collection, n)
		}
	}
	return nil
}

func (c *DynamoDBClient) Ping(ctx context.Context) error {
	_, err := c.svc.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	if err != nil {
		return fmt.Errorf("failed to reach DynamoDB: %w", err)
	}
	return nil
}

func (c *DynamoDBClient) Close(context.Context) error { return nil }
