package main

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// the largest batch a single SQS receive call can return
const maxReceiveBatch = 10

type SQSClientInterface interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

// QueueClient is the subset of queue operations the worker and the
// reconciler need. Every error returned is a *TransportError.
type QueueClient interface {
	Receive(ctx context.Context, queueURL string, maxCount, waitSeconds int32) ([]Message, error)
	Delete(ctx context.Context, queueURL, leaseToken string) error
	Send(ctx context.Context, queueURL, body string) error
}

type SQSQueue struct {
	client SQSClientInterface
}

func NewSQSQueue(client SQSClientInterface) *SQSQueue {
	return &SQSQueue{client: client}
}

// Receive leases up to maxCount messages, waiting at most waitSeconds for one
// to arrive. maxCount is clamped to the range SQS accepts.
func (q *SQSQueue) Receive(ctx context.Context, queueURL string, maxCount, waitSeconds int32) ([]Message, error) {
	if maxCount < 1 {
		maxCount = 1
	}
	if maxCount > maxReceiveBatch {
		maxCount = maxReceiveBatch
	}

	result, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: maxCount,
		WaitTimeSeconds:     waitSeconds,
	})
	if err != nil {
		return nil, &TransportError{Op: "receive", QueueURL: queueURL, Err: err}
	}

	messages := make([]Message, 0, len(result.Messages))
	for _, m := range result.Messages {
		messages = append(messages, Message{
			ID:         aws.ToString(m.MessageId),
			LeaseToken: aws.ToString(m.ReceiptHandle),
			Body:       aws.ToString(m.Body),
		})
	}
	return messages, nil
}

func (q *SQSQueue) Delete(ctx context.Context, queueURL, leaseToken string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(leaseToken),
	})
	if err != nil {
		return &TransportError{Op: "delete", QueueURL: queueURL, Err: err}
	}
	return nil
}

func (q *SQSQueue) Send(ctx context.Context, queueURL, body string) error {
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return &TransportError{Op: "send", QueueURL: queueURL, Err: err}
	}
	return nil
}
