package escrow

import (
	"context"
	"time"

	"escrow-core/internal/campaign"
	"escrow-core/internal/event"
	"escrow-core/internal/model"
	"escrow-core/internal/store"
	"escrow-core/pkg/logger"
	"escrow-core/pkg/monitor"

	"go.uber.org/zap"
)

// DueCampaigns 已过截止时间、尚未广播结果的活动
func (s *Service) DueCampaigns(ctx context.Context, limit int) ([]string, error) {
	campaigns, err := s.store.ListDueCampaigns(ctx, s.now(), limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// AnnounceDeadline 截止后广播一次最终状态
// 已广播过或仍在募集期时 announced 为 false
func (s *Service) AnnounceDeadline(ctx context.Context, id string) (status campaign.Status, announced bool, err error) {
	now := s.now()

	err = s.withinTx(ctx, id, func(tx store.Tx) error {
		c := tx.Campaign()
		held, err := tx.Balance(model.EscrowHolder(id))
		if err != nil {
			return err
		}
		status = campaign.DeriveStatus(now, c.Deadline, held, c.Target)
		if status == campaign.FundingPeriod || c.DeadlineNotifiedAt != nil {
			return nil
		}

		msg, err := model.NewOutboxMessage(event.TopicCampaignDeadlineReach, id, event.DeadlineReachedEvent{
			CampaignID:  id,
			Status:      status.String(),
			HeldBalance: held.String(),
			Target:      c.Target.String(),
			BlockTime:   now,
		})
		if err != nil {
			return err
		}
		if err := tx.Enqueue(msg); err != nil {
			return err
		}
		announced = true
		return tx.MarkDeadlineNotified(time.Now())
	})
	if err != nil {
		return status, false, err
	}

	if announced {
		monitor.ObserveDeadline(status.String())
		logger.Info("Campaign deadline reached",
			zap.String("campaign_id", id),
			zap.String("status", status.String()),
		)
	}
	return status, announced, nil
}

// RefundHolders 仍持有入金的贡献者 (失败活动的待退款名单)
func (s *Service) RefundHolders(ctx context.Context, id string) ([]model.Deposit, error) {
	return s.store.ListDeposits(ctx, id)
}
