package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"escrow-core/internal/campaign"
	"escrow-core/internal/event"
	"escrow-core/internal/service/escrow"
	"escrow-core/internal/service/mq"
	"escrow-core/internal/store"
	"escrow-core/internal/worker/tasks"
	"escrow-core/pkg/utils/lock"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic, key string
	payload    []byte
}

type fakeProducer struct {
	mu   sync.Mutex
	sent []published
	fail map[string]bool // 按 topic 失败
}

func (p *fakeProducer) Publish(_ context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[topic] {
		return errors.New("broker down")
	}
	p.sent = append(p.sent, published{topic, key, payload})
	return nil
}

func (p *fakeProducer) Close() error { return nil }

type fakeReminders struct {
	got []tasks.RefundReminderPayload
}

func (r *fakeReminders) EnqueueRefundReminder(_ context.Context, p tasks.RefundReminderPayload) error {
	r.got = append(r.got, p)
	return nil
}

var (
	owner = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

func params(deadline uint64) campaign.Params {
	return campaign.Params{
		Target:          decimal.NewFromInt(1000),
		Deadline:        deadline,
		MinContribution: decimal.NewFromInt(1),
		MaxPerUser:      decimal.NewFromInt(1000),
		MaxCap:          decimal.NewFromInt(2000),
	}
}

func TestRelayOnce(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := uint64(100)
	svc := escrow.NewService(st, escrow.WithClock(func() uint64 { return now }))

	view, err := svc.CreateCampaign(ctx, owner, params(600))
	require.NoError(t, err)
	_, err = svc.Fund(ctx, view.ID, alice, decimal.NewFromInt(10))
	require.NoError(t, err)

	producer := &fakeProducer{fail: map[string]bool{event.TopicContributionAccepted: true}}
	relay := NewRelayService(st, producer)

	sent, err := relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, producer.sent, 1)
	assert.Equal(t, event.TopicCampaignCreated, producer.sent[0].topic)
	assert.Equal(t, view.ID, producer.sent[0].key)

	// 失败的消息保持 PENDING，恢复后补发
	producer.fail = nil
	sent, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, event.TopicContributionAccepted, producer.sent[1].topic)

	sent, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestWatchDeadlines(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := uint64(100)
	svc := escrow.NewService(st, escrow.WithClock(func() uint64 { return now }))

	failed, err := svc.CreateCampaign(ctx, owner, params(500))
	require.NoError(t, err)
	succeeded, err := svc.CreateCampaign(ctx, owner, params(500))
	require.NoError(t, err)
	open, err := svc.CreateCampaign(ctx, owner, params(900))
	require.NoError(t, err)

	_, err = svc.Fund(ctx, failed.ID, alice, decimal.NewFromInt(300))
	require.NoError(t, err)
	_, err = svc.Fund(ctx, failed.ID, bob, decimal.NewFromInt(200))
	require.NoError(t, err)
	_, err = svc.Fund(ctx, succeeded.ID, alice, decimal.NewFromInt(1000))
	require.NoError(t, err)

	reminders := &fakeReminders{}
	cronSvc := NewCronService(lock.NewLocalLock(), svc, reminders, "@every 1m", 10)

	now = 501
	cronSvc.WatchDeadlines()

	require.Len(t, reminders.got, 2)
	contributors := []string{reminders.got[0].Contributor, reminders.got[1].Contributor}
	assert.ElementsMatch(t, []string{alice.Hex(), bob.Hex()}, contributors)
	for _, r := range reminders.got {
		assert.Equal(t, failed.ID, r.CampaignID)
	}

	// 第二轮不会重复广播
	cronSvc.WatchDeadlines()
	assert.Len(t, reminders.got, 2)

	msgs, err := st.ListPendingOutbox(ctx, 0)
	require.NoError(t, err)
	var announced []string
	for _, m := range msgs {
		if m.Topic == event.TopicCampaignDeadlineReach {
			announced = append(announced, m.Key)
		}
	}
	assert.ElementsMatch(t, []string{failed.ID, succeeded.ID}, announced)
	assert.NotContains(t, announced, open.ID)
}

func TestWatchDeadlines_LockHeld(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	now := uint64(100)
	svc := escrow.NewService(st, escrow.WithClock(func() uint64 { return now }))
	_, err := svc.CreateCampaign(ctx, owner, params(500))
	require.NoError(t, err)

	locker := lock.NewLocalLock()
	ok, err := locker.Acquire(ctx, deadlineLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = 501
	NewCronService(locker, svc, nil, "@every 1m", 10).WatchDeadlines()

	ids, err := svc.DueCampaigns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, ids, 1, "nothing announced while another instance holds the lock")
}

func TestEventAuditor(t *testing.T) {
	a := NewEventAuditor(nil, "escrow-events")

	assert.NoError(t, a.Handle(&mq.Message{
		Topic:   event.TopicCampaignSettled,
		Key:     "c1",
		Payload: []byte(`{"campaign_id":"c1","kind":"refund","to":"0x1","amount":"5","tx_hash":"0xabc"}`),
	}))
	assert.NoError(t, a.Handle(&mq.Message{Topic: "unknown", Payload: []byte(`{}`)}))
	assert.Error(t, a.Handle(&mq.Message{Topic: event.TopicContributionAccepted, Payload: []byte(`not json`)}))
}
