package service

import (
	"context"
	"encoding/json"
	"fmt"

	"escrow-core/internal/event"
	"escrow-core/internal/service/mq"
	"escrow-core/pkg/logger"

	"go.uber.org/zap"
)

// EventAuditor 订阅事件总线，把每个事件写入审计日志
type EventAuditor struct {
	consumer mq.Consumer
	stream   string
}

func NewEventAuditor(consumer mq.Consumer, stream string) *EventAuditor {
	return &EventAuditor{consumer: consumer, stream: stream}
}

// Run 阻塞直到 ctx 取消
func (a *EventAuditor) Run(ctx context.Context) error {
	return a.consumer.Subscribe(ctx, a.stream, a.Handle)
}

// Handle 解码并记录一条事件；无法解码的消息返回错误，不确认
func (a *EventAuditor) Handle(msg *mq.Message) error {
	fields := []zap.Field{
		zap.String("id", msg.ID),
		zap.String("event", msg.Topic),
		zap.String("campaign_id", msg.Key),
	}

	switch msg.Topic {
	case event.TopicCampaignCreated:
		var e event.CampaignCreatedEvent
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			return fmt.Errorf("decode %s: %w", msg.Topic, err)
		}
		fields = append(fields, zap.String("owner", e.Owner), zap.String("target", e.Target), zap.Uint64("deadline", e.Deadline))
	case event.TopicContributionAccepted:
		var e event.ContributionAcceptedEvent
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			return fmt.Errorf("decode %s: %w", msg.Topic, err)
		}
		fields = append(fields, zap.String("contributor", e.Contributor), zap.String("amount", e.Amount))
	case event.TopicCampaignSettled:
		var e event.CampaignSettledEvent
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			return fmt.Errorf("decode %s: %w", msg.Topic, err)
		}
		fields = append(fields, zap.String("kind", e.Kind), zap.String("to", e.To), zap.String("amount", e.Amount), zap.String("tx_hash", e.TxHash))
	case event.TopicCampaignDeadlineReach:
		var e event.DeadlineReachedEvent
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			return fmt.Errorf("decode %s: %w", msg.Topic, err)
		}
		fields = append(fields, zap.String("status", e.Status), zap.String("held_balance", e.HeldBalance))
	default:
		logger.Warn("Audit: unknown event", fields...)
		return nil
	}

	logger.Info("Audit", fields...)
	return nil
}
