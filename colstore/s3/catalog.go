package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Catalog tracks, per reference version, the latest published column
// object. DynamoDB conditional writes provide the atomic
// compare-and-swap that S3 lacks, so multiple publishers can safely
// race.
//
// Table schema:
//   - Partition key: ref_version (string)
//   - Sort key: revision (number) - monotonically increasing
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name flagcol-catalog \
//	  --attribute-definitions AttributeName=ref_version,AttributeType=S AttributeName=revision,AttributeType=N \
//	  --key-schema AttributeName=ref_version,KeyType=HASH AttributeName=revision,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type Catalog struct {
	client    DDBClient
	tableName string
}

// DDBClient is the interface for the DynamoDB operations the catalog
// uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentPublish is returned when another publisher committed
// the same revision first.
var ErrConcurrentPublish = errors.New("concurrent publish detected")

// NewCatalog creates a catalog on the given table.
func NewCatalog(client DDBClient, tableName string) *Catalog {
	return &Catalog{
		client:    client,
		tableName: tableName,
	}
}

// Publish records objectKey as the next revision of the column for the
// given reference version. Fails with ErrConcurrentPublish if another
// writer claimed the revision first; callers retry by re-reading
// Latest.
func (c *Catalog) Publish(ctx context.Context, refVersion, objectKey string) (revision uint64, err error) {
	latest, _, err := c.latest(ctx, refVersion)
	if err != nil {
		return 0, err
	}
	revision = latest + 1

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"ref_version": &types.AttributeValueMemberS{Value: refVersion},
			"revision":    &types.AttributeValueMemberN{Value: strconv.FormatUint(revision, 10)},
			"object_key":  &types.AttributeValueMemberS{Value: objectKey},
		},
		ConditionExpression: aws.String("attribute_not_exists(ref_version) AND attribute_not_exists(revision)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return 0, ErrConcurrentPublish
		}
		return 0, fmt.Errorf("failed to publish column revision: %w", err)
	}
	return revision, nil
}

// Latest returns the object key of the newest published column for the
// given reference version. Found is false when nothing has been
// published yet.
func (c *Catalog) Latest(ctx context.Context, refVersion string) (objectKey string, found bool, err error) {
	revision, objectKey, err := c.latest(ctx, refVersion)
	if err != nil {
		return "", false, err
	}
	return objectKey, revision > 0, nil
}

func (c *Catalog) latest(ctx context.Context, refVersion string) (uint64, string, error) {
	resp, err := c.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("ref_version = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: refVersion},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query catalog: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	revAttr, ok := item["revision"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", fmt.Errorf("catalog item for %q has no numeric revision", refVersion)
	}
	revision, err := strconv.ParseUint(revAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("catalog item for %q has malformed revision: %w", refVersion, err)
	}

	var objectKey string
	if keyAttr, ok := item["object_key"].(*types.AttributeValueMemberS); ok {
		objectKey = keyAttr.Value
	}
	return revision, objectKey, nil
}
