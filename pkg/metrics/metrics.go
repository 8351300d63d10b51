package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Metrics bundles the service's prometheus collectors. HTTP request metrics
// come from the gin middleware; domain counters are incremented by the
// engines.
type Metrics struct {
	reqTotal *prometheus.CounterVec
	reqDur   *prometheus.HistogramVec

	OrdersCreated     *prometheus.CounterVec
	PaymentsSettled   *prometheus.CounterVec
	CallbacksRejected *prometheus.CounterVec
	CodesRedeemed     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests processed, partitioned by status code, method and route.",
		}, []string{"code", "method", "route"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		}, []string{"code", "method", "route"}),
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "membership_orders_created_total",
			Help: "Orders created, partitioned by plan.",
		}, []string{"plan"}),
		PaymentsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "membership_payments_settled_total",
			Help: "Orders settled, partitioned by plan and settle source (direct or gateway).",
		}, []string{"plan", "source"}),
		CallbacksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "membership_gateway_callbacks_rejected_total",
			Help: "Gateway callbacks rejected, partitioned by reason.",
		}, []string{"reason"}),
		CodesRedeemed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "membership_invite_codes_redeemed_total",
			Help: "Invite codes redeemed, partitioned by plan.",
		}, []string{"plan"}),
	}
	prometheus.MustRegister(m.reqTotal, m.reqDur, m.OrdersCreated, m.PaymentsSettled, m.CallbacksRejected, m.CodesRedeemed)
	return m
}

// Middleware records request count and latency. Routes are labeled by their
// template (c.FullPath) to bound label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())
		m.reqTotal.WithLabelValues(code, c.Request.Method, route).Inc()
		m.reqDur.WithLabelValues(code, c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Serve exposes /metrics on its own listener so scrapes stay out of the API
// access log.
func (m *Metrics) Serve(addr string, log *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Errorf("metrics listener stopped: %v", err)
		}
	}()
}

var Module = fx.Options(
	fx.Provide(New),
)
