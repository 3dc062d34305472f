package monitor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	ContributionsAccepted prometheus.Counter
	ContributionAmount    prometheus.Counter
	ContributionsRejected *prometheus.CounterVec
	ClaimsTotal           *prometheus.CounterVec
	SettledAmount         *prometheus.CounterVec
	DeadlineAnnounced     *prometheus.CounterVec
}

// Global Metrics Instance
// 未初始化时下面的记录函数都是 no-op
var Business *BusinessMetrics

var businessOnce sync.Once

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	businessOnce.Do(func() {
		Business = &BusinessMetrics{
			ContributionsAccepted: promauto.NewCounter(prometheus.CounterOpts{
				Name: "escrow_contributions_accepted_total",
				Help: "The total number of accepted contributions",
			}),
			ContributionAmount: promauto.NewCounter(prometheus.CounterOpts{
				Name: "escrow_contribution_amount_total",
				Help: "The total amount of accepted contributions",
			}),
			ContributionsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "escrow_contributions_rejected_total",
				Help: "Rejected contributions by reason",
			}, []string{"reason"}),
			ClaimsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "escrow_claims_total",
				Help: "Claims by settlement kind",
			}, []string{"kind"}),
			SettledAmount: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "escrow_settled_amount_total",
				Help: "Amount released by payouts and refunds",
			}, []string{"kind"}),
			DeadlineAnnounced: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "escrow_deadline_announced_total",
				Help: "Campaigns announced after their deadline, by outcome",
			}, []string{"status"}),
		}
	})
}

func ObserveContribution(amount decimal.Decimal) {
	if Business == nil {
		return
	}
	Business.ContributionsAccepted.Inc()
	Business.ContributionAmount.Add(amount.InexactFloat64())
}

func ObserveRejection(reason string) {
	if Business == nil {
		return
	}
	Business.ContributionsRejected.WithLabelValues(reason).Inc()
}

func ObserveClaim(kind string, amount decimal.Decimal) {
	if Business == nil {
		return
	}
	Business.ClaimsTotal.WithLabelValues(kind).Inc()
	if amount.IsPositive() {
		Business.SettledAmount.WithLabelValues(kind).Add(amount.InexactFloat64())
	}
}

func ObserveDeadline(status string) {
	if Business == nil {
		return
	}
	Business.DeadlineAnnounced.WithLabelValues(status).Inc()
}
