package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"escrow-core/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCampaign(id string, deadline uint64) *model.Campaign {
	return &model.Campaign{
		ID:              id,
		Owner:           "0x00000000000000000000000000000000000000aa",
		Target:          decimal.NewFromInt(100),
		Deadline:        deadline,
		MinContribution: decimal.NewFromInt(1),
		MaxPerUser:      decimal.NewFromInt(50),
		MaxCap:          decimal.NewFromInt(200),
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	msg, err := model.NewOutboxMessage("campaign.created", "c1", map[string]string{"id": "c1"})
	require.NoError(t, err)
	require.NoError(t, s.CreateCampaign(ctx, newCampaign("c1", 600), msg))

	c, err := s.GetCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, uint64(600), c.Deadline)

	held, err := s.HeldBalance(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, held.IsZero())

	pending, err := s.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, s.MarkOutboxSent(ctx, pending[0].ID))
	pending, err = s.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = s.GetCampaign(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.CreateCampaign(ctx, newCampaign("c1", 600)))
}

func TestMemoryStore_TxCommit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateCampaign(ctx, newCampaign("c1", 600)))

	err := s.WithinTx(ctx, "c1", func(tx Tx) error {
		if err := tx.Credit(model.EscrowHolder("c1"), decimal.NewFromInt(30)); err != nil {
			return err
		}
		if err := tx.SetDeposit("alice", decimal.NewFromInt(30)); err != nil {
			return err
		}
		return tx.RecordContribution(&model.Contribution{CampaignID: "c1", Contributor: "alice", Amount: decimal.NewFromInt(30)})
	})
	require.NoError(t, err)

	held, _ := s.HeldBalance(ctx, "c1")
	assert.Equal(t, "30", held.String())
	dep, _ := s.Deposit(ctx, "c1", "alice")
	assert.Equal(t, "30", dep.String())
	assert.Len(t, s.Contributions(), 1)

	deposits, err := s.ListDeposits(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.Equal(t, "alice", deposits[0].Contributor)
}

func TestMemoryStore_TxRollback(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateCampaign(ctx, newCampaign("c1", 600)))
	require.NoError(t, s.WithinTx(ctx, "c1", func(tx Tx) error {
		return tx.SetDeposit("alice", decimal.NewFromInt(10))
	}))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, "c1", func(tx Tx) error {
		_ = tx.Credit("bob", decimal.NewFromInt(5))
		_ = tx.ClearDeposit("alice")
		_ = tx.SetDeposit("carol", decimal.NewFromInt(3))
		_ = tx.RecordTransfer(&model.Transfer{CampaignID: "c1", TxHash: "0x1", Amount: decimal.NewFromInt(5)})
		msg, _ := model.NewOutboxMessage("t", "c1", "x")
		_ = tx.Enqueue(msg)
		_ = tx.MarkDeadlineNotified(time.Now())
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bob, _ := s.AccountBalance(ctx, "bob")
	assert.True(t, bob.IsZero())
	alice, _ := s.Deposit(ctx, "c1", "alice")
	assert.Equal(t, "10", alice.String())
	carol, _ := s.Deposit(ctx, "c1", "carol")
	assert.True(t, carol.IsZero())
	assert.Empty(t, s.Transfers())

	pending, _ := s.ListPendingOutbox(ctx, 0)
	assert.Empty(t, pending)

	c, _ := s.GetCampaign(ctx, "c1")
	assert.Nil(t, c.DeadlineNotifiedAt)
}

func TestMemoryStore_Debit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateCampaign(ctx, newCampaign("c1", 600)))

	err := s.WithinTx(ctx, "c1", func(tx Tx) error {
		return tx.Debit(model.EscrowHolder("c1"), decimal.NewFromInt(1))
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	err = s.WithinTx(ctx, "missing", func(tx Tx) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListDueCampaigns(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateCampaign(ctx, newCampaign("late", 500)))
	require.NoError(t, s.CreateCampaign(ctx, newCampaign("early", 400)))
	require.NoError(t, s.CreateCampaign(ctx, newCampaign("open", 900)))

	due, err := s.ListDueCampaigns(ctx, 600, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "early", due[0].ID)
	assert.Equal(t, "late", due[1].ID)

	require.NoError(t, s.WithinTx(ctx, "early", func(tx Tx) error {
		return tx.MarkDeadlineNotified(time.Now())
	}))
	due, err = s.ListDueCampaigns(ctx, 600, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "late", due[0].ID)

	// deadline 本身不算过期
	due, err = s.ListDueCampaigns(ctx, 500, 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}
