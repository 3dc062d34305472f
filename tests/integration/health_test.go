package integration

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 集成测试假设 escrow-server 已经在运行 (例如通过 Docker Compose)
// 运行命令: ESCROW_BASE_URL=http://localhost:8080 go test -v ./tests/integration/...
func baseURL() string {
	if v := os.Getenv("ESCROW_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func TestHealthCheck(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL() + "/health")
	if err != nil {
		t.Skip("Skipping integration test: server not running? " + err.Error())
		return
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "UP", body.Data.Status)
}

func TestUnknownCampaign(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL() + "/api/v1/campaigns/00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Skip("Skipping integration test: server not running? " + err.Error())
		return
	}
	defer resp.Body.Close()

	// 业务错误也返回 200，由 code 区分
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 30009, body.Code)
}
