package service

import (
	"context"
	"time"

	"escrow-core/internal/campaign"
	"escrow-core/internal/model"
	"escrow-core/internal/worker/tasks"
	"escrow-core/pkg/logger"
	"escrow-core/pkg/utils/lock"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const deadlineLockKey = "cron:deadline_watch"

// DeadlineAnnouncer 截止时间巡检依赖的托管服务能力
type DeadlineAnnouncer interface {
	DueCampaigns(ctx context.Context, limit int) ([]string, error)
	AnnounceDeadline(ctx context.Context, id string) (campaign.Status, bool, error)
	RefundHolders(ctx context.Context, id string) ([]model.Deposit, error)
}

// ReminderEnqueuer 退款提醒任务投递
type ReminderEnqueuer interface {
	EnqueueRefundReminder(ctx context.Context, p tasks.RefundReminderPayload) error
}

type CronService struct {
	cron      *cron.Cron
	locker    lock.DistributedLock
	escrow    DeadlineAnnouncer
	reminders ReminderEnqueuer
	spec      string
	batch     int
}

func NewCronService(locker lock.DistributedLock, escrow DeadlineAnnouncer, reminders ReminderEnqueuer, spec string, batch int) *CronService {
	if batch <= 0 {
		batch = 100
	}
	return &CronService{
		cron:      cron.New(),
		locker:    locker,
		escrow:    escrow,
		reminders: reminders,
		spec:      spec,
		batch:     batch,
	}
}

func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.WatchDeadlines); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("Cron service started", zap.String("spec", s.spec))
	return nil
}

func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cron service stopped")
}

// WatchDeadlines 广播已到期活动的结果，失败活动给每个仍有入金的贡献者发退款提醒
func (s *CronService) WatchDeadlines() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// 多实例部署时只有一个节点执行
	locked, err := s.locker.Acquire(ctx, deadlineLockKey, time.Minute)
	if err != nil || !locked {
		logger.Debug("WatchDeadlines: lock held by another instance", zap.Error(err))
		return
	}
	defer func() {
		if err := s.locker.Release(ctx, deadlineLockKey); err != nil {
			logger.Warn("WatchDeadlines: release lock failed", zap.Error(err))
		}
	}()

	ids, err := s.escrow.DueCampaigns(ctx, s.batch)
	if err != nil {
		logger.Error("WatchDeadlines: list due campaigns failed", zap.Error(err))
		return
	}

	for _, id := range ids {
		status, announced, err := s.escrow.AnnounceDeadline(ctx, id)
		if err != nil {
			logger.Error("WatchDeadlines: announce failed", zap.String("campaign_id", id), zap.Error(err))
			continue
		}
		if !announced || status != campaign.Failed {
			continue
		}
		s.remindRefunds(ctx, id)
	}
}

func (s *CronService) remindRefunds(ctx context.Context, id string) {
	if s.reminders == nil {
		return
	}
	holders, err := s.escrow.RefundHolders(ctx, id)
	if err != nil {
		logger.Error("WatchDeadlines: list refund holders failed", zap.String("campaign_id", id), zap.Error(err))
		return
	}
	for _, d := range holders {
		p := tasks.RefundReminderPayload{
			CampaignID:  id,
			Contributor: d.Contributor,
			Amount:      d.Amount.String(),
		}
		if err := s.reminders.EnqueueRefundReminder(ctx, p); err != nil {
			logger.Error("WatchDeadlines: enqueue reminder failed",
				zap.String("campaign_id", id),
				zap.String("contributor", d.Contributor),
				zap.Error(err),
			)
		}
	}
}
