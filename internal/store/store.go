package store

import (
	"context"
	"errors"
	"time"

	"escrow-core/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Store 持久化端口
// 查询方法各自独立；所有写操作都在 WithinTx 里完成
type Store interface {
	// CreateCampaign 创建活动、托管账户以及 Outbox 消息 (同一事务)
	CreateCampaign(ctx context.Context, c *model.Campaign, events ...*model.OutboxMessage) error
	GetCampaign(ctx context.Context, id string) (*model.Campaign, error)
	// HeldBalance 活动托管账户余额
	HeldBalance(ctx context.Context, campaignID string) (decimal.Decimal, error)
	AccountBalance(ctx context.Context, holder string) (decimal.Decimal, error)
	Deposit(ctx context.Context, campaignID, contributor string) (decimal.Decimal, error)
	// ListDeposits 仍持有入金的贡献者
	ListDeposits(ctx context.Context, campaignID string) ([]model.Deposit, error)
	// ListDueCampaigns 已过截止时间且尚未广播的活动
	ListDueCampaigns(ctx context.Context, now uint64, limit int) ([]model.Campaign, error)
	ListPendingOutbox(ctx context.Context, limit int) ([]model.OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, id uint64) error

	// WithinTx 锁定活动行并执行 fn，fn 返回错误时全部回滚
	WithinTx(ctx context.Context, campaignID string, fn func(tx Tx) error) error
}

// Tx 单个活动上的工作单元
type Tx interface {
	Campaign() *model.Campaign

	Deposit(contributor string) (decimal.Decimal, error)
	SetDeposit(contributor string, amount decimal.Decimal) error
	ClearDeposit(contributor string) error

	Balance(holder string) (decimal.Decimal, error)
	Credit(holder string, amount decimal.Decimal) error
	// Debit 余额不足返回 ErrInsufficientFunds
	Debit(holder string, amount decimal.Decimal) error

	RecordContribution(c *model.Contribution) error
	RecordTransfer(t *model.Transfer) error
	MarkDeadlineNotified(at time.Time) error
	Enqueue(msg *model.OutboxMessage) error
}
