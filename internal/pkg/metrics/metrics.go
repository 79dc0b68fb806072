// Package metrics exposes Prometheus counters for authorization decisions,
// temporal guard rejections and permission cache lookups. A nil *Recorder is
// valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultAllow = "allow"
	ResultDeny  = "deny"
	ResultHit   = "hit"
	ResultMiss  = "miss"
)

const (
	GuardRegistration = "registration"
	GuardUndo         = "undo"
	GuardExpense      = "expense"
)

type Recorder struct {
	decisions   *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	cacheLookup *prometheus.CounterVec
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authz_decisions_total",
				Help: "Authorization decisions by category, action, granting tier and result.",
			},
			[]string{"category", "action", "tier", "result"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "temporal_guard_rejections_total",
				Help: "Operations rejected because a time window had closed.",
			},
			[]string{"guard"},
		),
		cacheLookup: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "permission_cache_lookups_total",
				Help: "Permission evaluator cache lookups.",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(r.decisions, r.rejections, r.cacheLookup)
	return r
}

func (r *Recorder) Decision(category, action, tier string, allowed bool) {
	if r == nil {
		return
	}
	result := ResultDeny
	if allowed {
		result = ResultAllow
	}
	r.decisions.WithLabelValues(category, action, tier, result).Inc()
}

func (r *Recorder) GuardRejected(guard string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(guard).Inc()
}

func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	r.cacheLookup.WithLabelValues(result).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
