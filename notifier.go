package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// publishes best effort notifications, callers log failures and carry on
type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}

// used when no topic is configured
type NoopNotifier struct{}

func (NoopNotifier) Publish(ctx context.Context, subject, message string) error { return nil }

type SNSClientInterface interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSNotifier struct {
	client   SNSClientInterface
	topicARN string
}

func NewSNSNotifier(client SNSClientInterface, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

func (n *SNSNotifier) Publish(ctx context.Context, subject, message string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", n.topicARN, err)
	}
	return nil
}
