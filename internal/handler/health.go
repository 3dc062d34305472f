package handler

import (
	"context"
	"net/http"
	"time"

	"escrow-core/internal/handler/response"
	"escrow-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// Checker 依赖健康检查 (数据库、Redis 等)
type Checker func(ctx context.Context) error

type HealthHandler struct {
	service string
	checks  map[string]Checker
}

func NewHealthHandler(service string, checks map[string]Checker) *HealthHandler {
	return &HealthHandler{service: service, checks: checks}
}

// HealthCheck godoc
// @Summary Check system health
// @Description Get the current health status of the server and its dependencies
// @Tags system
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "UP"
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = "DOWN"
			continue
		}
		deps[name] = "UP"
	}

	data := gin.H{
		"status":       status,
		"version":      "1.0.0",
		"service":      h.service,
		"dependencies": deps,
	}
	if status != "UP" {
		c.JSON(http.StatusServiceUnavailable, response.Response{Code: errno.InternalServerError.Code, Message: "unhealthy", Data: data})
		return
	}
	response.Success(c, data)
}
