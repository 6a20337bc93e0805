package main

import (
	"context"
	"database/sql"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDynamoDBResultSinkSuccessItem(t *testing.T) {
	client := new(MockDynamoDBClient)
	client.On("PutItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.PutItemInput) bool {
		return *input.TableName == "file-results"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	sink := NewDynamoDBResultSink(client, "file-results")
	err := sink.Put(context.Background(), ResultRecord{
		Key:         "a.txt",
		ProcessedAt: 1709294400,
		Status:      StatusSuccess,
		Result:      &ProcessingResult{Lines: 0, SizeBytes: 0},
	})
	require.NoError(t, err)

	input := client.Calls[0].Arguments.Get(1).(*dynamodb.PutItemInput)
	assert.Equal(t, map[string]types.AttributeValue{
		"FileID":      &types.AttributeValueMemberS{Value: "a.txt"},
		"ProcessedAt": &types.AttributeValueMemberN{Value: "1709294400"},
		"Status":      &types.AttributeValueMemberS{Value: "SUCCESS"},
		"Lines":       &types.AttributeValueMemberN{Value: "0"},
		"SizeBytes":   &types.AttributeValueMemberN{Value: "0"},
	}, input.Item)
}

func TestDynamoDBResultSinkFailureItem(t *testing.T) {
	item := dynamoItem(ResultRecord{
		Key:         "msg-1",
		ProcessedAt: 1709294400,
		Status:      StatusFailed,
		Error:       "no s3_key found in message: empty body",
	})

	assert.Equal(t, map[string]types.AttributeValue{
		"FileID":      &types.AttributeValueMemberS{Value: "msg-1"},
		"ProcessedAt": &types.AttributeValueMemberN{Value: "1709294400"},
		"Status":      &types.AttributeValueMemberS{Value: "FAILED"},
		"Error":       &types.AttributeValueMemberS{Value: "no s3_key found in message: empty body"},
	}, item)
}

func TestDynamoDBResultSinkError(t *testing.T) {
	client := new(MockDynamoDBClient)
	client.On("PutItem", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	err := NewDynamoDBResultSink(client, "file-results").Put(context.Background(), ResultRecord{Key: "a.txt"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestInMemoryResultSinkLastWriteWins(t *testing.T) {
	sink := NewInMemoryResultSink()
	ctx := context.Background()

	require.NoError(t, sink.Put(ctx, ResultRecord{Key: "a.txt", Status: StatusFailed, Error: "boom"}))
	require.NoError(t, sink.Put(ctx, ResultRecord{Key: "a.txt", Status: StatusSuccess, Result: &ProcessingResult{Lines: 1}}))

	record, ok := sink.Get("a.txt")
	require.True(t, ok)
	assert.Equal(t, StatusSuccess, record.Status)
	assert.Empty(t, record.Error)
	assert.Equal(t, 1, sink.Len())

	_, ok = sink.Get("b.txt")
	assert.False(t, ok)
}

func TestPostgresResultSinkPut(t *testing.T) {
	tests := []struct {
		name     string
		record   ResultRecord
		expected []interface{}
	}{
		{
			name: "success record",
			record: ResultRecord{
				Key:         "a.txt",
				ProcessedAt: 1709294400,
				Status:      StatusSuccess,
				Result:      &ProcessingResult{Lines: 4, SizeBytes: 20},
			},
			expected: []interface{}{
				"a.txt",
				int64(1709294400),
				"SUCCESS",
				sql.NullInt64{Int64: 4, Valid: true},
				sql.NullInt64{Int64: 20, Valid: true},
				sql.NullString{},
			},
		},
		{
			name: "failure record",
			record: ResultRecord{
				Key:         "msg-1",
				ProcessedAt: 1709294400,
				Status:      StatusFailed,
				Error:       "fetch failed",
			},
			expected: []interface{}{
				"msg-1",
				int64(1709294400),
				"FAILED",
				sql.NullInt64{},
				sql.NullInt64{},
				sql.NullString{String: "fetch failed", Valid: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockDBTX)
			db.On("ExecContext", mock.Anything, upsertResult, tt.expected).Return(nil, nil)

			err := NewPostgresResultSink(db).Put(context.Background(), tt.record)

			require.NoError(t, err)
			db.AssertExpectations(t)
		})
	}
}

func TestPostgresResultSinkEnsureSchemaError(t *testing.T) {
	db := new(MockDBTX)
	db.On("ExecContext", mock.Anything, createResultTable, mock.Anything).Return(nil, assert.AnError)

	err := NewPostgresResultSink(db).EnsureSchema(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
