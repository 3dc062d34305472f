package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransferPayout = "payout"
	TransferRefund = "refund"
)

// Transfer 出金记录 (成功后 owner 提取 / 失败后贡献者退款)
type Transfer struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CampaignID string `gorm:"type:varchar(36);not null;index" json:"campaign_id"`
	Kind       string `gorm:"type:varchar(16);not null" json:"kind"` // payout, refund

	// 交易信息
	TxHash      string          `gorm:"type:varchar(66);uniqueIndex;not null" json:"tx_hash"`
	FromAccount string          `gorm:"type:varchar(64);not null" json:"from_account"`
	ToAddress   string          `gorm:"type:varchar(42);not null;index" json:"to_address"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
}

func (Transfer) TableName() string {
	return "transfers"
}
