package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundReminderTask(t *testing.T) {
	task, err := NewRefundReminderTask(RefundReminderPayload{
		CampaignID:  "c1",
		Contributor: "0x00000000000000000000000000000000000000a1",
		Amount:      "300",
	})
	require.NoError(t, err)
	assert.Equal(t, TypeRefundReminder, task.Type())
	assert.JSONEq(t, `{"campaign_id":"c1","contributor":"0x00000000000000000000000000000000000000a1","amount":"300"}`, string(task.Payload()))

	assert.NoError(t, HandleRefundReminderTask(context.Background(), task))
}

func TestHandleRefundReminderTask_BadPayload(t *testing.T) {
	err := HandleRefundReminderTask(context.Background(), asynq.NewTask(TypeRefundReminder, []byte("not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = HandleRefundReminderTask(context.Background(), asynq.NewTask(TypeRefundReminder, []byte(`{"campaign_id":"c1"}`)))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
