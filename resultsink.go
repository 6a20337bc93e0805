package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// persists result records, a later Put for the same key replaces the earlier one
type ResultSink interface {
	Put(ctx context.Context, record ResultRecord) error
}

type DynamoDBClientInterface interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type DynamoDBResultSink struct {
	client DynamoDBClientInterface
	table  string
}

func NewDynamoDBResultSink(client DynamoDBClientInterface, table string) *DynamoDBResultSink {
	return &DynamoDBResultSink{client: client, table: table}
}

func (d *DynamoDBResultSink) Put(ctx context.Context, record ResultRecord) error {
	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      dynamoItem(record),
	})
	if err != nil {
		return fmt.Errorf("put item into %s: %w", d.table, err)
	}
	return nil
}

func dynamoItem(record ResultRecord) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"FileID":      &types.AttributeValueMemberS{Value: record.Key},
		"ProcessedAt": &types.AttributeValueMemberN{Value: strconv.FormatInt(record.ProcessedAt, 10)},
		"Status":      &types.AttributeValueMemberS{Value: string(record.Status)},
	}
	if record.Result != nil {
		item["Lines"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(record.Result.Lines, 10)}
		item["SizeBytes"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(record.Result.SizeBytes, 10)}
	}
	if record.Error != "" {
		item["Error"] = &types.AttributeValueMemberS{Value: record.Error}
	}
	return item
}
