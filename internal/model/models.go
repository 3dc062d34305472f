package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Campaign 众筹活动表
// 五个参数创建后不可变；状态不落库，每次按时间和余额推导
type Campaign struct {
	ID              string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Owner           string          `gorm:"type:varchar(42);not null;index" json:"owner"`
	Target          decimal.Decimal `gorm:"type:numeric;not null" json:"target"`
	Deadline        uint64          `gorm:"not null;index" json:"deadline"` // Unix 秒
	MinContribution decimal.Decimal `gorm:"type:numeric;not null" json:"min_contribution"`
	MaxPerUser      decimal.Decimal `gorm:"type:numeric;not null" json:"max_per_user"`
	MaxCap          decimal.Decimal `gorm:"type:numeric;not null" json:"max_cap"`
	// 截止后由定时任务广播一次，避免重复通知
	DeadlineNotifiedAt *time.Time     `gorm:"index" json:"deadline_notified_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// Account 资金账户表
// Holder: 活动托管账户为 "escrow:<campaign_id>"，收款账户为地址
// 核心设计: 引入 Version 字段实现乐观锁
type Account struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Holder    string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"holder"`
	Balance   decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"balance"`
	Version   uint64          `gorm:"not null;default:0" json:"version"` // 乐观锁版本号
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName 指定表名
func (Campaign) TableName() string {
	return "campaigns"
}

func (Account) TableName() string {
	return "accounts"
}

// EscrowHolder 活动托管账户的 holder
func EscrowHolder(campaignID string) string {
	return "escrow:" + campaignID
}

// OutboxMessage 本地消息表 (Transactional Outbox)
type OutboxMessage struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic string `gorm:"type:varchar(255);not null" json:"topic"`
	// 分区键 (campaign_id)，保证同一活动的消息有序
	Key string `gorm:"type:varchar(255);not null;default:''" json:"key"`
	// 事件唯一标识，消费者据此去重
	EventKey  string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"event_key"`
	Payload   []byte         `gorm:"type:text;not null" json:"payload"`
	Status    string         `gorm:"type:varchar(50);not null;default:'PENDING';index" json:"status"` // PENDING, SENT, FAILED
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OutboxMessage) TableName() string {
	return "outbox_messages"
}

const (
	OutboxPending = "PENDING"
	OutboxSent    = "SENT"
)
