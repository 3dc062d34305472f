package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow-core/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于 GORM (PostgreSQL) 的实现
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateCampaign(ctx context.Context, c *model.Campaign, events ...*model.OutboxMessage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}

		// 托管账户，余额从 0 开始
		escrow := model.Account{Holder: model.EscrowHolder(c.ID), Balance: decimal.Zero}
		if err := tx.Create(&escrow).Error; err != nil {
			return err
		}

		for _, e := range events {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	var c model.Campaign
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) HeldBalance(ctx context.Context, campaignID string) (decimal.Decimal, error) {
	return s.AccountBalance(ctx, model.EscrowHolder(campaignID))
}

func (s *GormStore) AccountBalance(ctx context.Context, holder string) (decimal.Decimal, error) {
	return accountBalance(s.db.WithContext(ctx), holder)
}

func (s *GormStore) Deposit(ctx context.Context, campaignID, contributor string) (decimal.Decimal, error) {
	return depositOf(s.db.WithContext(ctx), campaignID, contributor)
}

func (s *GormStore) ListDeposits(ctx context.Context, campaignID string) ([]model.Deposit, error) {
	var deposits []model.Deposit
	err := s.db.WithContext(ctx).
		Where("campaign_id = ? AND amount > 0", campaignID).
		Order("id").
		Find(&deposits).Error
	return deposits, err
}

func (s *GormStore) ListDueCampaigns(ctx context.Context, now uint64, limit int) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := limited(s.db.WithContext(ctx), limit).
		Where("deadline < ? AND deadline_notified_at IS NULL", now).
		Order("deadline").
		Find(&campaigns).Error
	return campaigns, err
}

func (s *GormStore) ListPendingOutbox(ctx context.Context, limit int) ([]model.OutboxMessage, error) {
	var messages []model.OutboxMessage
	// 每次取一批，避免内存爆炸
	err := limited(s.db.WithContext(ctx), limit).
		Where("status = ?", model.OutboxPending).
		Order("id").
		Find(&messages).Error
	return messages, err
}

func (s *GormStore) MarkOutboxSent(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.OutboxMessage{}).
		Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}

func (s *GormStore) WithinTx(ctx context.Context, campaignID string, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 悲观锁: SELECT ... FOR UPDATE，同一活动上的调用串行执行
		var c model.Campaign
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = ?", campaignID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return fn(&gormTx{tx: tx, campaign: &c})
	})
}

type gormTx struct {
	tx       *gorm.DB
	campaign *model.Campaign
}

func (t *gormTx) Campaign() *model.Campaign { return t.campaign }

func (t *gormTx) Deposit(contributor string) (decimal.Decimal, error) {
	return depositOf(t.tx, t.campaign.ID, contributor)
}

func (t *gormTx) SetDeposit(contributor string, amount decimal.Decimal) error {
	d := model.Deposit{CampaignID: t.campaign.ID, Contributor: contributor, Amount: amount}
	return t.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "contributor"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&d).Error
}

func (t *gormTx) ClearDeposit(contributor string) error {
	return t.tx.
		Where("campaign_id = ? AND contributor = ?", t.campaign.ID, contributor).
		Delete(&model.Deposit{}).Error
}

func (t *gormTx) Balance(holder string) (decimal.Decimal, error) {
	return accountBalance(t.tx, holder)
}

func (t *gormTx) Credit(holder string, amount decimal.Decimal) error {
	acc := model.Account{Holder: holder, Balance: amount}
	return t.tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "holder"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":    gorm.Expr("accounts.balance + ?", amount),
			"version":    gorm.Expr("accounts.version + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&acc).Error
}

func (t *gormTx) Debit(holder string, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	res := t.tx.Model(&model.Account{}).
		Where("holder = ? AND balance >= ?", holder, amount).
		Updates(map[string]interface{}{
			"balance": gorm.Expr("balance - ?", amount),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s cannot pay %s", ErrInsufficientFunds, holder, amount)
	}
	return nil
}

func (t *gormTx) RecordContribution(c *model.Contribution) error {
	return t.tx.Create(c).Error
}

func (t *gormTx) RecordTransfer(tr *model.Transfer) error {
	return t.tx.Create(tr).Error
}

func (t *gormTx) MarkDeadlineNotified(at time.Time) error {
	if err := t.tx.Model(t.campaign).Update("deadline_notified_at", at).Error; err != nil {
		return err
	}
	t.campaign.DeadlineNotifiedAt = &at
	return nil
}

func (t *gormTx) Enqueue(msg *model.OutboxMessage) error {
	return t.tx.Create(msg).Error
}

// limited limit <= 0 表示不限制
func limited(db *gorm.DB, limit int) *gorm.DB {
	if limit > 0 {
		return db.Limit(limit)
	}
	return db
}

func accountBalance(db *gorm.DB, holder string) (decimal.Decimal, error) {
	var acc model.Account
	if err := db.Where("holder = ?", holder).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

func depositOf(db *gorm.DB, campaignID, contributor string) (decimal.Decimal, error) {
	var d model.Deposit
	if err := db.Where("campaign_id = ? AND contributor = ?", campaignID, contributor).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return d.Amount, nil
}
