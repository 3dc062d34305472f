package request

import "escrow-core/internal/campaign"

// 金额统一用十进制整数字符串，避免 JSON number 精度问题

// CreateCampaignRequest 创建众筹活动，调用者即 owner
type CreateCampaignRequest struct {
	Target          string `json:"target" binding:"required,amount" example:"1000"`
	Deadline        uint64 `json:"deadline" example:"1767225600"` // Unix 秒
	MinContribution string `json:"min_contribution" binding:"required,amount" example:"10"`
	MaxPerUser      string `json:"max_per_user" binding:"required,amount" example:"500"`
	MaxCap          string `json:"max_cap" binding:"required,amount" example:"2000"`
}

// FundRequest 入金
type FundRequest struct {
	Amount string `json:"amount" binding:"required,amount" example:"100"`
}

// Params 转换为活动参数，金额格式错误返回 campaign.ErrInvalidInput
func (r CreateCampaignRequest) Params() (campaign.Params, error) {
	var (
		p   campaign.Params
		err error
	)
	if p.Target, err = campaign.ParseAmount(r.Target); err != nil {
		return p, err
	}
	if p.MinContribution, err = campaign.ParseAmount(r.MinContribution); err != nil {
		return p, err
	}
	if p.MaxPerUser, err = campaign.ParseAmount(r.MaxPerUser); err != nil {
		return p, err
	}
	if p.MaxCap, err = campaign.ParseAmount(r.MaxCap); err != nil {
		return p, err
	}
	p.Deadline = r.Deadline
	return p, nil
}
