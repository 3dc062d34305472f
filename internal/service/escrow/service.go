package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow-core/internal/campaign"
	"escrow-core/internal/event"
	"escrow-core/internal/model"
	"escrow-core/internal/store"
	"escrow-core/pkg/cache"
	"escrow-core/pkg/crypto_util"
	"escrow-core/pkg/logger"
	"escrow-core/pkg/monitor"
	"escrow-core/pkg/safe_random"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrCampaignNotFound 活动不存在
var ErrCampaignNotFound = errors.New("campaign not found")

// Service 多活动托管服务
// 每次写调用都在一个 store 事务里运行核心状态机，失败整体回滚
type Service struct {
	store    store.Store
	cache    cache.Cache
	cacheTTL time.Duration
	now      func() uint64
}

type Option func(*Service)

// WithCache 缓存活动参数 (创建后不可变)
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithClock 替换时钟，测试用
func WithClock(now func() uint64) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		cacheTTL: 10 * time.Minute,
		now:      func() uint64 { return uint64(time.Now().Unix()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CampaignView 活动详情 (参数 + 托管余额 + 当前状态)
type CampaignView struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	campaign.Params
	HeldBalance decimal.Decimal `json:"held_balance"`
	Status      campaign.Status `json:"status"`
}

// FundResult 入金结果
type FundResult struct {
	CampaignID  string          `json:"campaign_id"`
	Contributor string          `json:"contributor"`
	Amount      decimal.Decimal `json:"amount"`
	Deposit     decimal.Decimal `json:"deposit"`
	HeldBalance decimal.Decimal `json:"held_balance"`
}

// ClaimResult 结算结果，Kind 为 none 时没有资金移动
type ClaimResult struct {
	CampaignID string                  `json:"campaign_id"`
	Kind       campaign.SettlementKind `json:"kind"`
	To         string                  `json:"to"`
	Amount     decimal.Decimal         `json:"amount"`
	TxHash     string                  `json:"tx_hash,omitempty"`
}

// 缓存的不可变部分
type campaignRecord struct {
	Owner  string          `json:"owner"`
	Params campaign.Params `json:"params"`
}

func cacheKey(id string) string {
	return "campaign:" + id
}

// CreateCampaign 校验参数并创建活动，caller 即 owner
func (s *Service) CreateCampaign(ctx context.Context, owner campaign.Identity, p campaign.Params) (*CampaignView, error) {
	now := s.now()
	if _, err := campaign.Create(p, now, nil); err != nil {
		return nil, err
	}

	c := &model.Campaign{
		ID:              uuid.NewString(),
		Owner:           owner.Hex(),
		Target:          p.Target,
		Deadline:        p.Deadline,
		MinContribution: p.MinContribution,
		MaxPerUser:      p.MaxPerUser,
		MaxCap:          p.MaxCap,
	}

	msg, err := model.NewOutboxMessage(event.TopicCampaignCreated, c.ID, event.CampaignCreatedEvent{
		CampaignID:      c.ID,
		Owner:           c.Owner,
		Target:          p.Target.String(),
		Deadline:        p.Deadline,
		MinContribution: p.MinContribution.String(),
		MaxPerUser:      p.MaxPerUser.String(),
		MaxCap:          p.MaxCap.String(),
		BlockTime:       now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCampaign(ctx, c, msg); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	logger.Info("Campaign created",
		zap.String("campaign_id", c.ID),
		zap.String("owner", c.Owner),
		zap.String("target", p.Target.String()),
		zap.Uint64("deadline", p.Deadline),
	)

	return &CampaignView{
		ID:          c.ID,
		Owner:       c.Owner,
		Params:      p,
		HeldBalance: decimal.Zero,
		Status:      campaign.FundingPeriod,
	}, nil
}

// Fund 入金: 先记入托管账户 (payable)，再运行 contribute
func (s *Service) Fund(ctx context.Context, id string, caller campaign.Identity, amount decimal.Decimal) (*FundResult, error) {
	now := s.now()
	var result FundResult

	err := s.withinTx(ctx, id, func(tx store.Tx) error {
		h := newTxHost(tx, now, caller)
		if err := tx.Credit(h.escrow, amount); err != nil {
			return err
		}

		c := campaign.Load(paramsOf(tx.Campaign()), h)
		if err := c.Contribute(h, amount); err != nil {
			return err
		}

		deposit, err := c.DepositOf(caller)
		if err != nil {
			return err
		}
		held, err := h.HeldBalance()
		if err != nil {
			return err
		}

		if err := tx.RecordContribution(&model.Contribution{
			CampaignID:  id,
			Contributor: caller.Hex(),
			Amount:      amount,
			BlockTime:   now,
		}); err != nil {
			return err
		}

		msg, err := model.NewOutboxMessage(event.TopicContributionAccepted, id, event.ContributionAcceptedEvent{
			CampaignID:  id,
			Contributor: caller.Hex(),
			Amount:      amount.String(),
			Deposit:     deposit.String(),
			HeldBalance: held.String(),
			BlockTime:   now,
		})
		if err != nil {
			return err
		}
		if err := tx.Enqueue(msg); err != nil {
			return err
		}

		result = FundResult{
			CampaignID:  id,
			Contributor: caller.Hex(),
			Amount:      amount,
			Deposit:     deposit,
			HeldBalance: held,
		}
		return nil
	})
	if err != nil {
		if reason := campaign.ErrorName(err); reason != "" {
			monitor.ObserveRejection(reason)
			logger.Info("Contribution rejected",
				zap.String("campaign_id", id),
				zap.String("caller", caller.Hex()),
				zap.String("amount", amount.String()),
				zap.String("reason", reason),
			)
		}
		return nil, err
	}

	monitor.ObserveContribution(amount)
	logger.Info("Contribution accepted",
		zap.String("campaign_id", id),
		zap.String("caller", caller.Hex()),
		zap.String("amount", amount.String()),
		zap.String("held_balance", result.HeldBalance.String()),
	)
	return &result, nil
}

// Claim 截止后结算: 成功时 owner 提走全部余额，失败时贡献者取回自己的入金
func (s *Service) Claim(ctx context.Context, id string, caller campaign.Identity) (*ClaimResult, error) {
	now := s.now()
	var result ClaimResult

	err := s.withinTx(ctx, id, func(tx store.Tx) error {
		h := newTxHost(tx, now, caller)
		c := campaign.Load(paramsOf(tx.Campaign()), h)

		settlement, err := c.Claim(h)
		if err != nil {
			return err
		}
		result = ClaimResult{
			CampaignID: id,
			Kind:       settlement.Kind,
			To:         settlement.To.Hex(),
			Amount:     settlement.Amount,
		}
		if !settlement.Moved() {
			return nil
		}

		nonce, err := safe_random.GenerateRandomHexString(8)
		if err != nil {
			return err
		}
		result.TxHash = crypto_util.TxHash(id, settlement.Kind.String(), result.To, settlement.Amount.String(), nonce)

		if err := tx.RecordTransfer(&model.Transfer{
			CampaignID:  id,
			Kind:        settlement.Kind.String(),
			TxHash:      result.TxHash,
			FromAccount: h.escrow,
			ToAddress:   result.To,
			Amount:      settlement.Amount,
		}); err != nil {
			return err
		}

		msg, err := model.NewOutboxMessage(event.TopicCampaignSettled, id, event.CampaignSettledEvent{
			CampaignID: id,
			Kind:       settlement.Kind.String(),
			To:         result.To,
			Amount:     settlement.Amount.String(),
			TxHash:     result.TxHash,
			BlockTime:  now,
		})
		if err != nil {
			return err
		}
		return tx.Enqueue(msg)
	})
	if err != nil {
		return nil, err
	}

	monitor.ObserveClaim(result.Kind.String(), result.Amount)
	logger.Info("Claim processed",
		zap.String("campaign_id", id),
		zap.String("caller", caller.Hex()),
		zap.String("kind", result.Kind.String()),
		zap.String("amount", result.Amount.String()),
		zap.String("tx_hash", result.TxHash),
	)
	return &result, nil
}

// Status 当前状态 (只读)
func (s *Service) Status(ctx context.Context, id string) (campaign.Status, error) {
	view, err := s.GetCampaign(ctx, id)
	if err != nil {
		return campaign.FundingPeriod, err
	}
	return view.Status, nil
}

// GetCampaign 参数 + 托管余额 + 状态
func (s *Service) GetCampaign(ctx context.Context, id string) (*CampaignView, error) {
	rec, err := s.record(ctx, id)
	if err != nil {
		return nil, err
	}
	held, err := s.store.HeldBalance(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CampaignView{
		ID:          id,
		Owner:       rec.Owner,
		Params:      rec.Params,
		HeldBalance: held,
		Status:      campaign.DeriveStatus(s.now(), rec.Params.Deadline, held, rec.Params.Target),
	}, nil
}

// GetDeposit 贡献者在某个活动里的累计入金，没有记录返回 0
func (s *Service) GetDeposit(ctx context.Context, id string, who campaign.Identity) (decimal.Decimal, error) {
	if _, err := s.record(ctx, id); err != nil {
		return decimal.Zero, err
	}
	return s.store.Deposit(ctx, id, who.Hex())
}

// AccountBalance 收款账户余额 (提取和退款都记到这里)
func (s *Service) AccountBalance(ctx context.Context, who campaign.Identity) (decimal.Decimal, error) {
	return s.store.AccountBalance(ctx, who.Hex())
}

// record 先查缓存，miss 再查库并回填
func (s *Service) record(ctx context.Context, id string) (*campaignRecord, error) {
	var rec campaignRecord
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey(id), &rec); err == nil {
			return &rec, nil
		}
	}

	c, err := s.store.GetCampaign(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCampaignNotFound, id)
		}
		return nil, err
	}
	rec = campaignRecord{Owner: c.Owner, Params: paramsOf(c)}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(id), rec, s.cacheTTL); err != nil {
			logger.Warn("Cache set failed", zap.String("campaign_id", id), zap.Error(err))
		}
	}
	return &rec, nil
}

func (s *Service) withinTx(ctx context.Context, id string, fn func(tx store.Tx) error) error {
	err := s.store.WithinTx(ctx, id, fn)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrCampaignNotFound, id)
	}
	return err
}
