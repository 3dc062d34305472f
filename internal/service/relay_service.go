package service

import (
	"context"
	"time"

	"escrow-core/internal/service/mq"
	"escrow-core/internal/store"
	"escrow-core/pkg/logger"

	"go.uber.org/zap"
)

// RelayService 负责将本地消息表的消息搬运到 MQ
// 先发送再标记 SENT => At-least-once，消费者按 EventKey 去重
type RelayService struct {
	store    store.Store
	producer mq.Producer
	interval time.Duration
	batch    int
}

func NewRelayService(st store.Store, producer mq.Producer) *RelayService {
	return &RelayService{
		store:    st,
		producer: producer,
		interval: 500 * time.Millisecond, // 500ms 轮询一次
		batch:    50,
	}
}

// Start 阻塞运行直到 ctx 取消
func (s *RelayService) Start(ctx context.Context) {
	logger.Info("Relay service started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Relay service stopped")
			return
		case <-ticker.C:
			if _, err := s.RelayOnce(ctx); err != nil {
				logger.Error("Relay: list pending messages failed", zap.Error(err))
			}
		}
	}
}

// RelayOnce 投递一批待发送消息，返回成功条数
func (s *RelayService) RelayOnce(ctx context.Context) (int, error) {
	messages, err := s.store.ListPendingOutbox(ctx, s.batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, msg := range messages {
		if err := s.producer.Publish(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
			// 保持 PENDING，下一轮重试
			logger.Error("Relay: publish failed", zap.Uint64("id", msg.ID), zap.String("topic", msg.Topic), zap.Error(err))
			continue
		}

		// 这里失败下次还会再发一次
		if err := s.store.MarkOutboxSent(ctx, msg.ID); err != nil {
			logger.Error("Relay: mark sent failed", zap.Uint64("id", msg.ID), zap.Error(err))
			continue
		}
		sent++
		logger.Debug("Relay: message delivered", zap.Uint64("id", msg.ID), zap.String("topic", msg.Topic))
	}
	return sent, nil
}
