package monitor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestObserveWithoutInit(t *testing.T) {
	saved := Business
	Business = nil
	defer func() { Business = saved }()

	assert.NotPanics(t, func() {
		ObserveContribution(decimal.NewFromInt(1))
		ObserveRejection("HardCapExceeded")
		ObserveClaim("refund", decimal.NewFromInt(1))
		ObserveDeadline("Failed")
	})
}

func TestBusinessMetrics(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(Business.ContributionsRejected.WithLabelValues("DeadlinePassed"))
	ObserveRejection("DeadlinePassed")
	assert.Equal(t, before+1, testutil.ToFloat64(Business.ContributionsRejected.WithLabelValues("DeadlinePassed")))

	paid := testutil.ToFloat64(Business.SettledAmount.WithLabelValues("payout"))
	ObserveClaim("payout", decimal.NewFromInt(250))
	assert.Equal(t, paid+250, testutil.ToFloat64(Business.SettledAmount.WithLabelValues("payout")))
}

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Init()

	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/api/v1/campaigns/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/campaigns/:id", "200"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/abc", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/campaigns/:id", "200")))
}
