package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"escrow-core/internal/model"

	"github.com/shopspring/decimal"
)

// MemoryStore 内存实现，单元测试和本地开发使用
// 整个 store 一把锁；事务失败时按 undo 日志逆序回放
type MemoryStore struct {
	mu sync.Mutex

	campaigns     map[string]*model.Campaign
	deposits      map[string]map[string]decimal.Decimal // campaign -> contributor -> amount
	accounts      map[string]decimal.Decimal
	contributions []model.Contribution
	transfers     []model.Transfer
	outbox        []model.OutboxMessage
	seq           uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		campaigns: make(map[string]*model.Campaign),
		deposits:  make(map[string]map[string]decimal.Decimal),
		accounts:  make(map[string]decimal.Decimal),
	}
}

func (s *MemoryStore) nextID() uint64 {
	s.seq++
	return s.seq
}

func (s *MemoryStore) CreateCampaign(_ context.Context, c *model.Campaign, events ...*model.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campaigns[c.ID]; ok {
		return fmt.Errorf("campaign %s already exists", c.ID)
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	s.campaigns[c.ID] = &cp
	s.deposits[c.ID] = make(map[string]decimal.Decimal)
	s.accounts[model.EscrowHolder(c.ID)] = decimal.Zero

	for _, e := range events {
		s.appendOutbox(e)
	}
	return nil
}

func (s *MemoryStore) appendOutbox(msg *model.OutboxMessage) {
	msg.ID = s.nextID()
	msg.CreatedAt = time.Now()
	s.outbox = append(s.outbox, *msg)
}

func (s *MemoryStore) GetCampaign(_ context.Context, id string) (*model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) HeldBalance(ctx context.Context, campaignID string) (decimal.Decimal, error) {
	return s.AccountBalance(ctx, model.EscrowHolder(campaignID))
}

func (s *MemoryStore) AccountBalance(_ context.Context, holder string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[holder], nil
}

func (s *MemoryStore) Deposit(_ context.Context, campaignID, contributor string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deposits[campaignID][contributor], nil
}

func (s *MemoryStore) ListDeposits(_ context.Context, campaignID string) ([]model.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Deposit
	for who, amt := range s.deposits[campaignID] {
		if amt.IsPositive() {
			out = append(out, model.Deposit{CampaignID: campaignID, Contributor: who, Amount: amt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Contributor < out[j].Contributor })
	return out, nil
}

func (s *MemoryStore) ListDueCampaigns(_ context.Context, now uint64, limit int) ([]model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Campaign
	for _, c := range s.campaigns {
		if c.Deadline < now && c.DeadlineNotifiedAt == nil {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Deadline != out[j].Deadline {
			return out[i].Deadline < out[j].Deadline
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListPendingOutbox(_ context.Context, limit int) ([]model.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.OutboxMessage
	for _, m := range s.outbox {
		if m.Status != model.OutboxPending {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkOutboxSent(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].ID == id {
			s.outbox[i].Status = model.OutboxSent
			s.outbox[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

// Transfers 出金记录快照
func (s *MemoryStore) Transfers() []model.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transfer(nil), s.transfers...)
}

// Contributions 入金流水快照
func (s *MemoryStore) Contributions() []model.Contribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Contribution(nil), s.contributions...)
}

func (s *MemoryStore) WithinTx(_ context.Context, campaignID string, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[campaignID]
	if !ok {
		return ErrNotFound
	}
	cp := *c
	tx := &memoryTx{s: s, campaign: &cp}
	if err := fn(tx); err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	*c = cp
	return nil
}

type memoryTx struct {
	s        *MemoryStore
	campaign *model.Campaign
	undo     []func()
}

func (t *memoryTx) Campaign() *model.Campaign { return t.campaign }

func (t *memoryTx) Deposit(contributor string) (decimal.Decimal, error) {
	return t.s.deposits[t.campaign.ID][contributor], nil
}

func (t *memoryTx) SetDeposit(contributor string, amount decimal.Decimal) error {
	ledger := t.s.deposits[t.campaign.ID]
	prev, had := ledger[contributor]
	ledger[contributor] = amount
	t.undo = append(t.undo, func() {
		if had {
			ledger[contributor] = prev
		} else {
			delete(ledger, contributor)
		}
	})
	return nil
}

func (t *memoryTx) ClearDeposit(contributor string) error {
	ledger := t.s.deposits[t.campaign.ID]
	prev, had := ledger[contributor]
	if !had {
		return nil
	}
	delete(ledger, contributor)
	t.undo = append(t.undo, func() { ledger[contributor] = prev })
	return nil
}

func (t *memoryTx) Balance(holder string) (decimal.Decimal, error) {
	return t.s.accounts[holder], nil
}

func (t *memoryTx) Credit(holder string, amount decimal.Decimal) error {
	t.setAccount(holder, t.s.accounts[holder].Add(amount))
	return nil
}

func (t *memoryTx) Debit(holder string, amount decimal.Decimal) error {
	bal := t.s.accounts[holder]
	if bal.LessThan(amount) {
		return fmt.Errorf("%w: %s cannot pay %s", ErrInsufficientFunds, holder, amount)
	}
	t.setAccount(holder, bal.Sub(amount))
	return nil
}

func (t *memoryTx) setAccount(holder string, v decimal.Decimal) {
	prev, had := t.s.accounts[holder]
	t.s.accounts[holder] = v
	t.undo = append(t.undo, func() {
		if had {
			t.s.accounts[holder] = prev
		} else {
			delete(t.s.accounts, holder)
		}
	})
}

func (t *memoryTx) RecordContribution(c *model.Contribution) error {
	c.ID = t.s.nextID()
	c.CreatedAt = time.Now()
	n := len(t.s.contributions)
	t.s.contributions = append(t.s.contributions, *c)
	t.undo = append(t.undo, func() { t.s.contributions = t.s.contributions[:n] })
	return nil
}

func (t *memoryTx) RecordTransfer(tr *model.Transfer) error {
	for _, existing := range t.s.transfers {
		if existing.TxHash == tr.TxHash {
			return fmt.Errorf("duplicate tx hash %s", tr.TxHash)
		}
	}
	tr.ID = t.s.nextID()
	tr.CreatedAt = time.Now()
	n := len(t.s.transfers)
	t.s.transfers = append(t.s.transfers, *tr)
	t.undo = append(t.undo, func() { t.s.transfers = t.s.transfers[:n] })
	return nil
}

func (t *memoryTx) MarkDeadlineNotified(at time.Time) error {
	t.campaign.DeadlineNotifiedAt = &at
	return nil
}

func (t *memoryTx) Enqueue(msg *model.OutboxMessage) error {
	n := len(t.s.outbox)
	t.s.appendOutbox(msg)
	t.undo = append(t.undo, func() { t.s.outbox = t.s.outbox[:n] })
	return nil
}
