package worker

import (
	"context"
	"errors"

	"escrow-core/internal/worker/tasks"

	"github.com/hibiken/asynq"
)

// Client 封装 Asynq Client
type Client struct {
	client *asynq.Client
}

// NewClient 初始化 Client
// addr: "localhost:6379"
func NewClient(addr string, password string, db int) *Client {
	c := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Client{client: c}
}

// EnqueueRefundReminder 投递退款提醒，同一贡献者重复投递视为成功
func (c *Client) EnqueueRefundReminder(ctx context.Context, p tasks.RefundReminderPayload) error {
	task, err := tasks.NewRefundReminderTask(p)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// Close 关闭客户端连接
func (c *Client) Close() error {
	return c.client.Close()
}
