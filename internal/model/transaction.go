package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit 贡献者账本 (campaign_id + contributor 唯一)
// 退款时整行删除
type Deposit struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CampaignID  string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_campaign_contributor" json:"campaign_id"`
	Contributor string          `gorm:"type:varchar(42);not null;uniqueIndex:idx_campaign_contributor" json:"contributor"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Contribution 入金流水 (只追加)
type Contribution struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CampaignID  string          `gorm:"type:varchar(36);not null;index" json:"campaign_id"`
	Contributor string          `gorm:"type:varchar(42);not null;index" json:"contributor"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	BlockTime   uint64          `gorm:"not null" json:"block_time"` // 入金时的宿主时间
	CreatedAt   time.Time       `json:"created_at"`
}

func (Deposit) TableName() string {
	return "deposits"
}

func (Contribution) TableName() string {
	return "contributions"
}
