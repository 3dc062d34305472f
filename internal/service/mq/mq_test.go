package mq

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaMessageRoundTrip(t *testing.T) {
	km := toKafkaMessage("contribution.accepted", "c1", []byte(`{"amount":"10"}`))
	assert.Empty(t, km.Topic, "writer owns the topic")

	km.Topic = "escrow-events"
	km.Partition = 2
	km.Offset = 42

	msg := fromKafkaMessage(km)
	assert.Equal(t, "2/42", msg.ID)
	assert.Equal(t, "contribution.accepted", msg.Topic)
	assert.Equal(t, "c1", msg.Key)
	assert.Equal(t, `{"amount":"10"}`, string(msg.Payload))
	assert.Equal(t, "escrow-events", msg.Metadata["topic"])
}

func TestFromXMessage(t *testing.T) {
	msg, ok := fromXMessage(redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"event":   "campaign.settled",
			"key":     "c1",
			"payload": `{"kind":"refund"}`,
		},
	})
	require.True(t, ok)
	assert.Equal(t, "1-0", msg.ID)
	assert.Equal(t, "campaign.settled", msg.Topic)
	assert.Equal(t, "c1", msg.Key)

	_, ok = fromXMessage(redis.XMessage{ID: "2-0", Values: map[string]interface{}{"event": "x"}})
	assert.False(t, ok)
}
