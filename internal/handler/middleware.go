package handler

import (
	"escrow-core/internal/campaign"
	"escrow-core/internal/handler/response"
	"escrow-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

const (
	// CallerHeader 调用者地址 (由网关鉴权后注入)
	CallerHeader = "X-Caller-Address"
	callerKey    = "caller"
)

// RequireCaller 解析调用者身份，缺失或格式错误时直接返回
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CallerHeader)
		if raw == "" {
			response.Abort(c, errno.ErrCallerMissing)
			return
		}
		id, err := campaign.ParseIdentity(raw)
		if err != nil {
			response.Abort(c, toErrno(err))
			return
		}
		c.Set(callerKey, id)
		c.Next()
	}
}

func callerOf(c *gin.Context) campaign.Identity {
	return c.MustGet(callerKey).(campaign.Identity)
}
