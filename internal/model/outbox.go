package model

import (
	"encoding/json"

	"escrow-core/pkg/crypto_util"
	"escrow-core/pkg/safe_random"

	"gorm.io/gorm"
)

// NewOutboxMessage 构造 Outbox 消息
// EventKey = blake3(topic|key|payload|nonce)
func NewOutboxMessage(topic, key string, payload interface{}) (*OutboxMessage, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	nonce, err := safe_random.GenerateRandomHexString(16)
	if err != nil {
		return nil, err
	}

	return &OutboxMessage{
		Topic:    topic,
		Key:      key,
		EventKey: crypto_util.CalculateBlake3([]byte(topic + "|" + key + "|" + string(payloadBytes) + "|" + nonce)),
		Payload:  payloadBytes,
		Status:   OutboxPending,
	}, nil
}

// CreateOutboxMessage 在同一个事务中创建业务数据和 Outbox 消息
func CreateOutboxMessage(tx *gorm.DB, topic, key string, payload interface{}) error {
	msg, err := NewOutboxMessage(topic, key, payload)
	if err != nil {
		return err
	}
	return tx.Create(msg).Error
}
