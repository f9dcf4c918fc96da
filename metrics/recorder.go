// Package metrics provides observability hooks for uniflow stores and
// dispatchers. Recorder is the abstract surface; PrometheusRecorder is the
// concrete implementation. StoreObserver and Instrumented adapt a Recorder
// to the store Observer seam and the Dispatcher middleware seam.
package metrics

import (
	"context"
	"time"

	"git.home.luguber.info/inful/uniflow"
)

// Recorder defines observability hooks for store and dispatch metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe for concurrent use.
type Recorder interface {
	IncIntent(store, intent string)
	ObserveDispatchDuration(store, intent string, d time.Duration)
	IncStatePublished(store, state string)
	IncEffectEmitted(store, effect string)
	IncEffectDropped(store, effect, reason string)
	IncStoreDestroyed(store string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) IncIntent(string, string)                                 {}
func (NoopRecorder) ObserveDispatchDuration(string, string, time.Duration)    {}
func (NoopRecorder) IncStatePublished(string, string)                         {}
func (NoopRecorder) IncEffectEmitted(string, string)                          {}
func (NoopRecorder) IncEffectDropped(string, string, string)                  {}
func (NoopRecorder) IncStoreDestroyed(string)                                 {}

// StoreObserver adapts a Recorder to the uniflow.Observer seam for one store.
func StoreObserver(store string, rec Recorder) uniflow.Observer {
	if rec == nil {
		rec = NoopRecorder{}
	}
	return &storeObserver{store: store, rec: rec}
}

type storeObserver struct {
	store string
	rec   Recorder
}

func (o *storeObserver) OnStatePublished(state uniflow.State) {
	o.rec.IncStatePublished(o.store, uniflow.TypeName(state))
}

func (o *storeObserver) OnEffectEmitted(effect uniflow.Effect) {
	o.rec.IncEffectEmitted(o.store, uniflow.TypeName(effect))
}

func (o *storeObserver) OnEffectDropped(effect uniflow.Effect, reason uniflow.DropReason) {
	o.rec.IncEffectDropped(o.store, uniflow.TypeName(effect), string(reason))
}

func (o *storeObserver) OnTaskRejected() {}

func (o *storeObserver) OnDestroy() {
	o.rec.IncStoreDestroyed(o.store)
}

type instrumentedDispatcher[I uniflow.Intent] struct {
	store string
	next  uniflow.Dispatcher[I]
	rec   Recorder
}

// Instrumented wraps a dispatcher so intent counts and synchronous dispatch
// durations are recorded per intent type.
func Instrumented[I uniflow.Intent](store string, next uniflow.Dispatcher[I], rec Recorder) uniflow.Dispatcher[I] {
	if rec == nil {
		rec = NoopRecorder{}
	}
	return &instrumentedDispatcher[I]{store: store, next: next, rec: rec}
}

func (d *instrumentedDispatcher[I]) Dispatch(ctx context.Context, intent I) {
	name := uniflow.TypeName(intent)
	d.rec.IncIntent(d.store, name)

	start := time.Now()
	d.next.Dispatch(ctx, intent)
	d.rec.ObserveDispatchDuration(d.store, name, time.Since(start))
}
