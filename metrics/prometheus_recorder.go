package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	intents          *prom.CounterVec
	dispatchDuration *prom.HistogramVec
	statesPublished  *prom.CounterVec
	effectsEmitted   *prom.CounterVec
	effectsDropped   *prom.CounterVec
	storesDestroyed  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		intents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "uniflow",
			Name:      "intents_total",
			Help:      "Dispatched intents by store and intent type",
		}, []string{"store", "intent"}),
		dispatchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "uniflow",
			Name:      "dispatch_duration_seconds",
			Help:      "Synchronous dispatch duration by store and intent type",
			Buckets:   prom.DefBuckets,
		}, []string{"store", "intent"}),
		statesPublished: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "uniflow",
			Name:      "states_published_total",
			Help:      "Published states by store and state type",
		}, []string{"store", "state"}),
		effectsEmitted: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "uniflow",
			Name:      "effects_emitted_total",
			Help:      "Emitted effects by store and effect type",
		}, []string{"store", "effect"}),
		effectsDropped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "uniflow",
			Name:      "effects_dropped_total",
			Help:      "Dropped effects by store, effect type, and drop reason",
		}, []string{"store", "effect", "reason"}),
		storesDestroyed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "uniflow",
			Name:      "stores_destroyed_total",
			Help:      "Store teardowns by store",
		}, []string{"store"}),
	}
	reg.MustRegister(
		pr.intents,
		pr.dispatchDuration,
		pr.statesPublished,
		pr.effectsEmitted,
		pr.effectsDropped,
		pr.storesDestroyed,
	)
	return pr
}

func (p *PrometheusRecorder) IncIntent(store, intent string) {
	if p == nil || p.intents == nil {
		return
	}
	p.intents.WithLabelValues(store, intent).Inc()
}

func (p *PrometheusRecorder) ObserveDispatchDuration(store, intent string, d time.Duration) {
	if p == nil || p.dispatchDuration == nil {
		return
	}
	p.dispatchDuration.WithLabelValues(store, intent).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStatePublished(store, state string) {
	if p == nil || p.statesPublished == nil {
		return
	}
	p.statesPublished.WithLabelValues(store, state).Inc()
}

func (p *PrometheusRecorder) IncEffectEmitted(store, effect string) {
	if p == nil || p.effectsEmitted == nil {
		return
	}
	p.effectsEmitted.WithLabelValues(store, effect).Inc()
}

func (p *PrometheusRecorder) IncEffectDropped(store, effect, reason string) {
	if p == nil || p.effectsDropped == nil {
		return
	}
	p.effectsDropped.WithLabelValues(store, effect, reason).Inc()
}

func (p *PrometheusRecorder) IncStoreDestroyed(store string) {
	if p == nil || p.storesDestroyed == nil {
		return
	}
	p.storesDestroyed.WithLabelValues(store).Inc()
}

var _ Recorder = (*PrometheusRecorder)(nil)
