package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/farm-management-api/internal/config"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	httpReqCnt    *prometheus.CounterVec
	httpDur       *prometheus.HistogramVec
	httpInfl      *prometheus.GaugeVec
	registrations *prometheus.CounterVec
	redemptions   *prometheus.CounterVec
	exports       *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	sweptCodes    prometheus.Counter
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "registrations_total"}, []string{"account_type"})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "invitation_redemptions_total"}, []string{"result"})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "exports_total"}, []string{"resource", "format"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "analytics_cache_lookups_total"}, []string{"result"})
	sweptCodes := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "invitation_codes_deactivated_total"})
	r.MustRegister(registrations, redemptions, exports, cacheLookups, sweptCodes)

	return &Metrics{
		registry:      r,
		httpReqCnt:    httpReqCnt,
		httpDur:       httpDur,
		httpInfl:      httpInfl,
		registrations: registrations,
		redemptions:   redemptions,
		exports:       exports,
		cacheLookups:  cacheLookups,
		sweptCodes:    sweptCodes,
	}
}

func (m *Metrics) Registration(accountType string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(accountType).Inc()
}

// Redemption counts an invitation redemption attempt by outcome
// (ok, invalid, deactivated, expired, exhausted).
func (m *Metrics) Redemption(result string) {
	if m == nil {
		return
	}
	m.redemptions.WithLabelValues(result).Inc()
}

func (m *Metrics) Export(resource, format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(resource, format).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) CodesDeactivated(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.sweptCodes.Add(float64(n))
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
