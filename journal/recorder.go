package journal

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/uniflow"
	"git.home.luguber.info/inful/uniflow/internal/logfields"
	"git.home.luguber.info/inful/uniflow/observe"
)

const appendTimeout = 2 * time.Second

// StoreObserver returns a uniflow.Observer that records published states and
// emitted effects for one store. Journal failures are logged and otherwise
// swallowed; journaling must never disturb the state/effect path.
func StoreObserver(store string, j Journal) uniflow.Observer {
	return &storeObserver{store: store, journal: j}
}

type storeObserver struct {
	store   string
	journal Journal
}

func (o *storeObserver) OnStatePublished(state uniflow.State) {
	o.record(KindState, uniflow.TypeName(state), state)
}

func (o *storeObserver) OnEffectEmitted(effect uniflow.Effect) {
	o.record(KindEffect, uniflow.TypeName(effect), effect)
}

func (o *storeObserver) OnEffectDropped(uniflow.Effect, uniflow.DropReason) {}
func (o *storeObserver) OnTaskRejected()                                   {}
func (o *storeObserver) OnDestroy()                                        {}

func (o *storeObserver) record(kind Kind, typeName string, value any) {
	// Observer hooks carry no context; bound the write locally.
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	payload, err := json.Marshal(value)
	if err != nil {
		payload = nil
	}
	if err := o.journal.Append(ctx, o.store, "", kind, typeName, payload); err != nil {
		slog.Warn("journal append failed",
			logfields.Store(o.store),
			slog.String("kind", string(kind)),
			logfields.Error(err))
	}
}

type journaledDispatcher[I uniflow.Intent] struct {
	store   string
	next    uniflow.Dispatcher[I]
	journal Journal
}

// Journaled wraps a dispatcher so every intent is recorded before it is
// processed, correlated by the dispatch ID carried on the context (one is
// attached if missing).
func Journaled[I uniflow.Intent](store string, next uniflow.Dispatcher[I], j Journal) uniflow.Dispatcher[I] {
	return &journaledDispatcher[I]{store: store, next: next, journal: j}
}

func (d *journaledDispatcher[I]) Dispatch(ctx context.Context, intent I) {
	ctx, id := observe.EnsureDispatchID(ctx)

	payload, err := json.Marshal(intent)
	if err != nil {
		payload = nil
	}

	appendCtx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	if err := d.journal.Append(appendCtx, d.store, id, KindIntent, uniflow.TypeName(intent), payload); err != nil {
		slog.Warn("journal append failed",
			logfields.Store(d.store),
			logfields.Intent(uniflow.TypeName(intent)),
			logfields.Error(err))
	}
	cancel()

	d.next.Dispatch(ctx, intent)
}
