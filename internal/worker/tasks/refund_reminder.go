package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"escrow-core/pkg/logger"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// 任务类型常量
const (
	TypeRefundReminder = "campaign:refund_reminder"
)

// RefundReminderPayload 失败活动的退款提醒
type RefundReminderPayload struct {
	CampaignID  string `json:"campaign_id"`
	Contributor string `json:"contributor"`
	Amount      string `json:"amount"` // Decimal string
}

// NewRefundReminderTask 创建退款提醒任务
// TaskID = campaign + contributor，重复投递会被 asynq 拒绝
func NewRefundReminderTask(p RefundReminderPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRefundReminder, payload,
		asynq.TaskID(fmt.Sprintf("refund:%s:%s", p.CampaignID, p.Contributor)),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
		asynq.Queue("low"),
	), nil
}

// HandleRefundReminderTask 处理退款提醒
// 投递渠道 (邮件/站内信) 不在本服务内，这里只记录
func HandleRefundReminderTask(ctx context.Context, t *asynq.Task) error {
	var p RefundReminderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// JSON 解析失败，重试也没用，直接进 Archived
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	if p.CampaignID == "" || p.Contributor == "" {
		return fmt.Errorf("incomplete payload: %w", asynq.SkipRetry)
	}

	logger.Info("Refund available",
		zap.String("campaign_id", p.CampaignID),
		zap.String("contributor", p.Contributor),
		zap.String("amount", p.Amount),
	)
	return nil
}
