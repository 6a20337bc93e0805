package main

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// RabbitMQNotifier publishes notifications to a durable queue.
type RabbitMQNotifier struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

func NewRabbitMQNotifier(url, queueName string) (*RabbitMQNotifier, error) {
	conn, err := connectWithRetry(url, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RabbitMQNotifier{conn: conn, channel: channel, queueName: queueName}, nil
}

func connectWithRetry(url string, maxRetries int, delay time.Duration) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Int("max_attempts", maxRetries).Msg("Failed to connect to RabbitMQ")
		if i < maxRetries-1 {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, err)
}

func (n *RabbitMQNotifier) Publish(ctx context.Context, subject, message string) error {
	payload, err := notificationPayload(subject, message)
	if err != nil {
		return err
	}

	err = n.channel.PublishWithContext(ctx,
		"",          // default exchange
		n.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         payload,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to rabbitmq queue %s: %w", n.queueName, err)
	}
	return nil
}

func (n *RabbitMQNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	return n.conn.Close()
}
