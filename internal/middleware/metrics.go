package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP and workflow counters exposed on /metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	CommissionsDistributedTotal prometheus.Counter
	PayoutAmountTotal           prometheus.Counter
	WithdrawalsCreatedTotal     prometheus.Counter
	ExtendsCreatedTotal         prometheus.Counter
	ClaimsTotal                 *prometheus.CounterVec
}

// NewMetrics registers the application metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "upline_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upline_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		CommissionsDistributedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upline_commissions_distributed_total",
			Help: "Clients whose commission has been distributed",
		}),
		PayoutAmountTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upline_payout_amount_total",
			Help: "Sum of commission amounts credited to user incomes",
		}),
		WithdrawalsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upline_withdrawals_created_total",
			Help: "Withdrawal requests accepted",
		}),
		ExtendsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upline_extends_created_total",
			Help: "Limit-extension requests accepted",
		}),
		ClaimsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "upline_client_claims_total",
			Help: "Client claim attempts by result",
		}, []string{"result"}),
	}
}

// Handler instruments every request with count and latency metrics.
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
