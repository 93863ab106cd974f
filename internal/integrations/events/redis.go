package events

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisBroker публикует сообщения через Redis pub/sub
type RedisBroker struct {
	client redis.UniversalClient
}

func NewRedisBroker(client redis.UniversalClient) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload).Err()
}

// LogBroker пишет события в лог, когда Redis выключен
type LogBroker struct {
	log Logger
}

func NewLogBroker(log Logger) *LogBroker {
	return &LogBroker{log: log}
}

func (b *LogBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.log.Info("event %s: %s", channel, string(payload))
	return nil
}
