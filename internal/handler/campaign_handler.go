package handler

import (
	"context"

	"escrow-core/internal/campaign"
	"escrow-core/internal/handler/request"
	"escrow-core/internal/handler/response"
	"escrow-core/internal/service/escrow"
	"escrow-core/pkg/errno"
	"escrow-core/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// EscrowService handler 依赖的托管服务能力
type EscrowService interface {
	CreateCampaign(ctx context.Context, owner campaign.Identity, p campaign.Params) (*escrow.CampaignView, error)
	GetCampaign(ctx context.Context, id string) (*escrow.CampaignView, error)
	Status(ctx context.Context, id string) (campaign.Status, error)
	GetDeposit(ctx context.Context, id string, who campaign.Identity) (decimal.Decimal, error)
	Fund(ctx context.Context, id string, caller campaign.Identity, amount decimal.Decimal) (*escrow.FundResult, error)
	Claim(ctx context.Context, id string, caller campaign.Identity) (*escrow.ClaimResult, error)
	AccountBalance(ctx context.Context, who campaign.Identity) (decimal.Decimal, error)
}

type CampaignHandler struct {
	svc EscrowService
}

func NewCampaignHandler(svc EscrowService) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

// StatusResponse 状态查询结果
type StatusResponse struct {
	CampaignID string          `json:"campaign_id"`
	Status     campaign.Status `json:"status" swaggertype:"string" example:"FundingPeriod"`
}

// DepositResponse 贡献者累计入金
type DepositResponse struct {
	CampaignID  string          `json:"campaign_id"`
	Contributor string          `json:"contributor"`
	Deposit     decimal.Decimal `json:"deposit" swaggertype:"string" example:"100"`
}

// BalanceResponse 收款账户余额
type BalanceResponse struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance" swaggertype:"string" example:"1000"`
}

// CreateCampaign 创建众筹活动
// @Summary 创建众筹活动
// @Description 调用者成为 owner；参数校验顺序: target > 0, max_cap >= target, max_per_user >= min_contribution, deadline > now
// @Tags Campaign
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "调用者地址"
// @Param request body request.CreateCampaignRequest true "活动参数"
// @Success 200 {object} response.Response{data=escrow.CampaignView}
// @Router /campaigns [post]
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req request.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	p, err := req.Params()
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}

	view, err := h.svc.CreateCampaign(c.Request.Context(), callerOf(c), p)
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}
	response.Success(c, view)
}

// GetCampaign 活动详情
// @Summary 活动详情
// @Description 参数、托管余额与当前状态
// @Tags Campaign
// @Produce json
// @Param id path string true "活动 ID"
// @Success 200 {object} response.Response{data=escrow.CampaignView}
// @Router /campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	view, err := h.svc.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}
	response.Success(c, view)
}

// GetStatus 活动状态
// @Summary 活动状态
// @Description FundingPeriod / Successful / Failed，只读
// @Tags Campaign
// @Produce json
// @Param id path string true "活动 ID"
// @Success 200 {object} response.Response{data=StatusResponse}
// @Router /campaigns/{id}/status [get]
func (h *CampaignHandler) GetStatus(c *gin.Context) {
	id := c.Param("id")
	status, err := h.svc.Status(c.Request.Context(), id)
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}
	response.Success(c, StatusResponse{CampaignID: id, Status: status})
}

// GetDeposit 贡献者累计入金
// @Summary 贡献者累计入金
// @Tags Campaign
// @Produce json
// @Param id path string true "活动 ID"
// @Param address path string true "贡献者地址"
// @Success 200 {object} response.Response{data=DepositResponse}
// @Router /campaigns/{id}/deposits/{address} [get]
func (h *CampaignHandler) GetDeposit(c *gin.Context) {
	id := c.Param("id")
	who, err := campaign.ParseIdentity(c.Param("address"))
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}

	deposit, err := h.svc.GetDeposit(c.Request.Context(), id, who)
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}
	response.Success(c, DepositResponse{CampaignID: id, Contributor: who.Hex(), Deposit: deposit})
}

// Fund 入金
// @Summary 入金
// @Description 检查顺序: 最小金额, 截止时间, 总额上限 (含本次), 单用户上限
// @Tags Campaign
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "调用者地址"
// @Param id path string true "活动 ID"
// @Param request body request.FundRequest true "入金金额"
// @Success 200 {object} response.Response{data=escrow.FundResult}
// @Router /campaigns/{id}/fund [post]
func (h *CampaignHandler) Fund(c *gin.Context) {
	var req request.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	amount, err := campaign.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}

	res, err := h.svc.Fund(c.Request.Context(), c.Param("id"), callerOf(c), amount)
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}
	response.Success(c, res)
}

// Claim 结算
// @Summary 结算
// @Description 成功: owner 提走全部余额；失败: 贡献者取回入金；重复提取无资金移动 (kind=none)
// @Tags Campaign
// @Produce json
// @Param X-Caller-Address header string true "调用者地址"
// @Param id path string true "活动 ID"
// @Success 200 {object} response.Response{data=escrow.ClaimResult}
// @Router /campaigns/{id}/claim [post]
func (h *CampaignHandler) Claim(c *gin.Context) {
	res, err := h.svc.Claim(c.Request.Context(), c.Param("id"), callerOf(c))
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}
	response.Success(c, res)
}

// GetAccount 收款账户余额
// @Summary 收款账户余额
// @Description 提取和退款转入的资金
// @Tags Account
// @Produce json
// @Param address path string true "地址"
// @Success 200 {object} response.Response{data=BalanceResponse}
// @Router /accounts/{address} [get]
func (h *CampaignHandler) GetAccount(c *gin.Context) {
	who, err := campaign.ParseIdentity(c.Param("address"))
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}

	bal, err := h.svc.AccountBalance(c.Request.Context(), who)
	if err != nil {
		response.Error(c, toErrno(err))
		return
	}
	response.Success(c, BalanceResponse{Address: who.Hex(), Balance: bal})
}
