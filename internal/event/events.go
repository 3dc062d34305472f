package event

// 事件类型，也是 Outbox 的 topic
// 所有事件的分区键都是 campaign_id，保证同一活动的事件有序
const (
	TopicCampaignCreated       = "campaign.created"
	TopicContributionAccepted  = "contribution.accepted"
	TopicCampaignSettled       = "campaign.settled"
	TopicCampaignDeadlineReach = "campaign.deadline_reached"
)

// CampaignCreatedEvent 活动创建
type CampaignCreatedEvent struct {
	CampaignID      string `json:"campaign_id"`
	Owner           string `json:"owner"`
	Target          string `json:"target"` // Decimal string
	Deadline        uint64 `json:"deadline"`
	MinContribution string `json:"min_contribution"`
	MaxPerUser      string `json:"max_per_user"`
	MaxCap          string `json:"max_cap"`
	BlockTime       uint64 `json:"block_time"`
}

// ContributionAcceptedEvent 入金成功
type ContributionAcceptedEvent struct {
	CampaignID  string `json:"campaign_id"`
	Contributor string `json:"contributor"`
	Amount      string `json:"amount"`
	Deposit     string `json:"deposit"` // 该贡献者累计
	HeldBalance string `json:"held_balance"`
	BlockTime   uint64 `json:"block_time"`
}

// CampaignSettledEvent owner 提取或贡献者退款
type CampaignSettledEvent struct {
	CampaignID string `json:"campaign_id"`
	Kind       string `json:"kind"` // payout, refund
	To         string `json:"to"`
	Amount     string `json:"amount"`
	TxHash     string `json:"tx_hash"`
	BlockTime  uint64 `json:"block_time"`
}

// DeadlineReachedEvent 截止后广播一次最终结果
type DeadlineReachedEvent struct {
	CampaignID  string `json:"campaign_id"`
	Status      string `json:"status"` // Successful, Failed
	HeldBalance string `json:"held_balance"`
	Target      string `json:"target"`
	BlockTime   uint64 `json:"block_time"`
}
