package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"escrow-core/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisProducer 实现 Producer 接口 (Redis Streams)
type RedisProducer struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisProducer 创建 Redis 生产者
// stream: 事件总线 stream 名
func NewRedisProducer(client *redis.Client, stream string) *RedisProducer {
	return &RedisProducer{
		client: client,
		stream: stream,
		maxLen: 100000,
	}
}

// Publish XADD 到 stream，近似裁剪到 maxLen
func (p *RedisProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			fieldEvent:   topic,
			fieldKey:     key,
			fieldPayload: payload,
		},
	}).Err()
	if err != nil {
		logger.Error("Redis publish failed", zap.String("event", topic), zap.Error(err))
		return fmt.Errorf("redis xadd error: %w", err)
	}
	return nil
}

// Close 连接由调用方管理
func (p *RedisProducer) Close() error {
	return nil
}

// RedisConsumer 实现 Consumer 接口
type RedisConsumer struct {
	client *redis.Client
	group  string
	name   string
}

// NewRedisConsumer 创建 Redis 消费者
func NewRedisConsumer(client *redis.Client, group, name string) *RedisConsumer {
	return &RedisConsumer{
		client: client,
		group:  group,
		name:   name,
	}
}

// Subscribe 订阅 Redis Stream，阻塞直到 ctx 取消
func (c *RedisConsumer) Subscribe(ctx context.Context, stream string, handler func(msg *Message) error) error {
	// XGROUP CREATE <stream> <group> 0 MKSTREAM
	err := c.client.XGroupCreateMkStream(ctx, stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("创建消费者组失败: %w", err)
	}

	logger.Info("Redis consumer started", zap.String("stream", stream), zap.String("group", c.group))

	for {
		if ctx.Err() != nil {
			return nil
		}

		// XREADGROUP GROUP <group> <consumer> BLOCK 2000 COUNT 10 STREAMS <stream> >
		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{stream, ">"},
			Count:    10,
			Block:    2 * time.Second,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue // 超时无消息
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Redis read failed", zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}

		for _, s := range streams {
			for _, x := range s.Messages {
				msg, ok := fromXMessage(x)
				if !ok {
					logger.Warn("Redis message without payload", zap.String("id", x.ID))
					c.ack(ctx, stream, x.ID)
					continue
				}
				if err := handler(msg); err != nil {
					// 留在 PEL 里，等待 XCLAIM 或重启后重试
					logger.Error("Redis handler failed", zap.String("id", x.ID), zap.Error(err))
					continue
				}
				c.ack(ctx, stream, x.ID)
			}
		}
	}
}

func (c *RedisConsumer) ack(ctx context.Context, stream, id string) {
	if err := c.client.XAck(ctx, stream, c.group, id).Err(); err != nil {
		logger.Warn("Redis ack failed", zap.String("id", id), zap.Error(err))
	}
}

// Close 连接由调用方管理
func (c *RedisConsumer) Close() error {
	return nil
}

func fromXMessage(x redis.XMessage) (*Message, bool) {
	payload, ok := x.Values[fieldPayload].(string)
	if !ok {
		return nil, false
	}
	msg := &Message{ID: x.ID, Payload: []byte(payload)}
	msg.Topic, _ = x.Values[fieldEvent].(string)
	msg.Key, _ = x.Values[fieldKey].(string)
	return msg, true
}
