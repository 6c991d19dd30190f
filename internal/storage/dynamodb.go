package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/webembed/coverframe/pkg/models"
)

// EmbedRepository stores embed metadata records in DynamoDB.
type EmbedRepository struct {
	client    *dynamodb.Client
	tableName string
}

// NewEmbedRepository creates an EmbedRepository from an existing DynamoDB client.
func NewEmbedRepository(client *dynamodb.Client, tableName string) *EmbedRepository {
	return &EmbedRepository{
		client:    client,
		tableName: tableName,
	}
}

func embedPK(id string) string {
	return fmt.Sprintf("EMBED#%s", id)
}

// PutRecord writes a new embed record. The conditional put guards against
// identifier reuse; with 64-bit random ids a collision is negligible, so a
// condition failure is surfaced as a plain error rather than retried.
func (r *EmbedRepository) PutRecord(ctx context.Context, rec *models.EmbedRecord) error {
	rec.PK = embedPK(rec.ID)
	rec.SK = "METADATA"

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal embed record: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("embed already exists: %s", rec.ID)
		}
		return fmt.Errorf("failed to create embed record: %w", err)
	}

	return nil
}

// GetRecord retrieves an embed record by its public identifier.
func (r *EmbedRepository) GetRecord(ctx context.Context, id string) (*models.EmbedRecord, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: embedPK(id)},
			"sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get embed record: %w", err)
	}

	if result.Item == nil {
		return nil, models.ErrEmbedNotFound
	}

	var rec models.EmbedRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embed record: %w", err)
	}

	return &rec, nil
}
