package mq

import (
	"context"
	"fmt"
	"time"

	"escrow-core/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaConsumer 实现 Consumer 接口
type KafkaConsumer struct {
	brokers []string
	groupID string
	reader  *kafka.Reader
}

// NewKafkaConsumer 创建 Kafka 消费者
func NewKafkaConsumer(brokers []string, groupID string) *KafkaConsumer {
	return &KafkaConsumer{
		brokers: brokers,
		groupID: groupID,
	}
}

// Subscribe 订阅 Kafka 主题，阻塞直到 ctx 取消
func (c *KafkaConsumer) Subscribe(ctx context.Context, stream string, handler func(msg *Message) error) error {
	// GroupID: 同组内一个分区只被一个消费者消费
	// StartOffset: 新组从最早的消息开始，事件不能丢
	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.brokers,
		GroupID:     c.groupID,
		Topic:       stream,
		MinBytes:    10e3, // 10KB
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.FirstOffset,
	})
	defer c.reader.Close()

	logger.Info("Kafka consumer started", zap.String("topic", stream), zap.String("group", c.groupID))

	for {
		// 1. 读取消息 (阻塞直到有消息)
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Kafka fetch failed", zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}

		// 2. 调用业务处理函数
		if err := handler(fromKafkaMessage(m)); err != nil {
			// 不提交 Offset，下次重启或 rebalance 后重新投递
			logger.Error("Kafka handler failed",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
			continue
		}

		// 3. 手动提交 Offset
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			logger.Error("Kafka commit failed", zap.Error(err))
		}
	}
}

// Close 关闭消费者
func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}

func fromKafkaMessage(m kafka.Message) *Message {
	msg := &Message{
		ID:       fmt.Sprintf("%d/%d", m.Partition, m.Offset),
		Key:      string(m.Key),
		Payload:  m.Value,
		Metadata: map[string]string{"topic": m.Topic},
	}
	for _, h := range m.Headers {
		if h.Key == fieldEvent {
			msg.Topic = string(h.Value)
		}
	}
	return msg
}
