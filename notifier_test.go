package main

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTopicARN = "arn:aws:sns:us-east-1:123456789012:file-processed"

func TestSNSNotifierPublish(t *testing.T) {
	client := new(MockSNSClient)
	client.On("Publish", mock.Anything, mock.MatchedBy(func(input *sns.PublishInput) bool {
		return *input.TopicArn == testTopicARN &&
			*input.Subject == "File Processed" &&
			*input.Message == "File processed successfully: a.txt"
	})).Return(&sns.PublishOutput{}, nil)

	err := NewSNSNotifier(client, testTopicARN).Publish(context.Background(), "File Processed", "File processed successfully: a.txt")

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSNSNotifierError(t *testing.T) {
	client := new(MockSNSClient)
	client.On("Publish", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	err := NewSNSNotifier(client, testTopicARN).Publish(context.Background(), "s", "m")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), testTopicARN)
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.Publish(context.Background(), "s", "m"))
}

func TestNotificationPayload(t *testing.T) {
	payload, err := notificationPayload("File Processed", "File processed successfully: a.txt")

	require.NoError(t, err)
	assert.JSONEq(t, `{"subject":"File Processed","message":"File processed successfully: a.txt"}`, string(payload))
}
