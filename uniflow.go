// Package uniflow provides a small scaffold for unidirectional state
// management (Model-View-Intent): an immutable state contract, an intent
// contract, a one-shot effect contract, a pure reducer contract, and a
// Store that owns the current state and a bounded effect stream.
//
// Feature code implements Dispatcher around a Store: dispatch translates
// intents into reducer transitions and asynchronous business calls, then
// publishes new states and emits effects. The UI layer reads Store.State,
// subscribes to state changes, and consumes the effect stream.
//
// Concurrent Dispatch calls are intentionally not serialized by the Store.
// Dispatch implementations that read-modify-write state across an await
// boundary must sequence their own intents; Reduce provides a safe
// synchronous read-reduce-publish primitive.
package uniflow

import (
	"context"
	"reflect"
	"strings"
)

// State is an immutable snapshot describing what the UI should render.
// Concrete variants are feature-specific; a feature typically defines a
// closed set of mutually exclusive cases (Loading / Content / Failed) and
// may seal them with its own unexported marker method.
type State interface{}

// Intent is a discrete user or system action submitted to a Dispatcher.
// Values are immutable and carry only the data needed to process the action.
type Intent interface{}

// Effect is a fire-and-forget signal consumed at most once (navigation,
// transient notification). Effects are not part of restorable state and are
// never replayed.
type Effect interface{}

// Reducer computes the next state from the current state and an intent.
//
// Implementations must be deterministic and total: no side effects, no
// dependency on anything outside the two inputs, and identical inputs yield
// structurally equal outputs. Intents that do not apply to the current state
// are handled by returning the input state unchanged, never by failing.
type Reducer[S State, I Intent] interface {
	Reduce(state S, intent I) S
}

// ReducerFunc adapts a plain function to the Reducer interface.
type ReducerFunc[S State, I Intent] func(state S, intent I) S

func (f ReducerFunc[S, I]) Reduce(state S, intent I) S { return f(state, intent) }

// Dispatcher is the extension point of the scaffold. Feature controllers
// implement it around an embedded Store: optionally apply a reducer
// synchronously (optimistic update), invoke asynchronous business
// operations through Store.Go, and publish states / emit effects from the
// outcomes. Business failures must not escape Dispatch; they are translated
// into an error-variant state or a transient effect.
//
// Dispatch must be safe to call after the owning Store is destroyed; the
// Store turns all publication primitives into no-ops at that point.
type Dispatcher[I Intent] interface {
	Dispatch(ctx context.Context, intent I)
}

// DispatcherFunc adapts a plain function to the Dispatcher interface.
type DispatcherFunc[I Intent] func(ctx context.Context, intent I)

func (f DispatcherFunc[I]) Dispatch(ctx context.Context, intent I) { f(ctx, intent) }

// TypeName returns the short type name of a state, intent, or effect value
// for log fields and metric labels ("feed.ToggleLike" rather than the full
// import path).
func TypeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.String()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
