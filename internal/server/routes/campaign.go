package routes

import (
	"escrow-core/internal/handler"

	"github.com/gin-gonic/gin"
)

// RegisterCampaignRoutes 注册众筹活动路由
// 写操作需要调用者身份 (X-Caller-Address)
func RegisterCampaignRoutes(rg *gin.RouterGroup, h *handler.CampaignHandler) {
	campaigns := rg.Group("/campaigns")
	{
		campaigns.GET("/:id", h.GetCampaign)
		campaigns.GET("/:id/status", h.GetStatus)
		campaigns.GET("/:id/deposits/:address", h.GetDeposit)
	}

	authed := campaigns.Group("", handler.RequireCaller())
	{
		authed.POST("", h.CreateCampaign)
		authed.POST("/:id/fund", h.Fund)
		authed.POST("/:id/claim", h.Claim)
	}

	rg.GET("/accounts/:address", h.GetAccount)
}
