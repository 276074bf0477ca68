package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

const AlertChannel = "proctor:alerts"

var ErrNotConfigured = errors.New("redis address not configured")

type IRedis interface {
	PublishAlert(ctx context.Context, payload []byte) error
	SubscribeAlerts(ctx context.Context) (<-chan []byte, func() error, error)
	Close() error
}

type redisClient struct {
	client  *redis.Client
	channel string
}

func New() (IRedis, error) {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		return nil, ErrNotConfigured
	}

	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return NewWithClient(client), nil
}

func NewWithClient(client *redis.Client) IRedis {
	return &redisClient{client: client, channel: AlertChannel}
}

func (r *redisClient) PublishAlert(ctx context.Context, payload []byte) error {
	receivers, err := r.client.Publish(ctx, r.channel, payload).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error publishing alert on %s: %v", r.channel, err))
		return err
	}
	logrus.Debug(fmt.Sprintf("Published alert on %s to %d receivers", r.channel, receivers))
	return nil
}

// SubscribeAlerts returns a channel of raw alert payloads. The returned close
// function ends the subscription and closes the channel.
func (r *redisClient) SubscribeAlerts(ctx context.Context) (<-chan []byte, func() error, error) {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, sub.Close, nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
