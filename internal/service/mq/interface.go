package mq

import "context"

// Message 代表一条通用的业务消息
type Message struct {
	ID       string            // 消息ID (Redis Stream ID 或 Kafka partition/offset)
	Topic    string            // 事件类型 (例如 "contribution.accepted")
	Key      string            // 分区键 (campaign_id)
	Payload  []byte            // 消息体 (JSON)
	Metadata map[string]string // 元数据
}

// Producer 生产者接口
// 所有事件写入同一个 Kafka topic / Redis stream，事件类型放在消息头里，
// 同一活动的事件按 key 落在同一分区，保证顺序
type Producer interface {
	// Publish 发送消息
	// topic: 事件类型; key: 分区键, 传空字符串则随机分区
	Publish(ctx context.Context, topic string, key string, payload []byte) error
	Close() error
}

// Consumer 消费者接口
type Consumer interface {
	// Subscribe 订阅 stream (Kafka topic / Redis stream)，阻塞直到 ctx 取消
	// handler: 消息处理函数，返回 error 时不确认，消息会被重新投递
	Subscribe(ctx context.Context, stream string, handler func(msg *Message) error) error

	// Close 关闭消费者
	Close() error
}

// 消息头/字段名
const (
	fieldEvent   = "event"
	fieldKey     = "key"
	fieldPayload = "payload"
)
