package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier publishes notifications on a redis pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(addr, channel string) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisNotifier{client: client, channel: channel}, nil
}

func (n *RedisNotifier) Publish(ctx context.Context, subject, message string) error {
	payload, err := notificationPayload(subject, message)
	if err != nil {
		return err
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to redis channel %s: %w", n.channel, err)
	}
	return nil
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

func notificationPayload(subject, message string) ([]byte, error) {
	return json.Marshal(struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}{subject, message})
}
