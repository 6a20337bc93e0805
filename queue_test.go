package main

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSQSQueueReceiveMapsMessages(t *testing.T) {
	mockSQS := new(MockSQSClient)
	mockSQS.On("ReceiveMessage", mock.Anything, mock.MatchedBy(func(input *sqs.ReceiveMessageInput) bool {
		return input.MaxNumberOfMessages == 1 && input.WaitTimeSeconds == 20
	})).Return(&sqs.ReceiveMessageOutput{
		Messages: []types.Message{{
			MessageId:     aws.String("id-1"),
			ReceiptHandle: aws.String("receipt-1"),
			Body:          aws.String("a.txt"),
		}},
	}, nil)

	messages, err := NewSQSQueue(mockSQS).Receive(context.Background(), testQueueURL, 0, 20)

	require.NoError(t, err)
	assert.Equal(t, []Message{{ID: "id-1", LeaseToken: "receipt-1", Body: "a.txt"}}, messages)
}

func TestSQSQueueErrorsAreTransportErrors(t *testing.T) {
	mockSQS := new(MockSQSClient)
	mockSQS.On("ReceiveMessage", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	mockSQS.On("DeleteMessage", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	mockSQS.On("SendMessage", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	q := NewSQSQueue(mockSQS)
	ctx := context.Background()

	_, receiveErr := q.Receive(ctx, testQueueURL, 1, 0)
	deleteErr := q.Delete(ctx, testQueueURL, "receipt-1")
	sendErr := q.Send(ctx, testQueueURL, "body")

	for op, err := range map[string]error{"receive": receiveErr, "delete": deleteErr, "send": sendErr} {
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr, op)
		assert.Equal(t, op, transportErr.Op)
		assert.ErrorIs(t, err, assert.AnError)
		assert.True(t, Retryable(err))
	}
}
