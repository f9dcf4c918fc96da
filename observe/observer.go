// Package observe provides logging instrumentation for uniflow stores and
// dispatchers: a slog-backed store Observer, a dispatch middleware that logs
// each intent with its duration, and context-carried dispatch correlation
// IDs tying the two together.
package observe

import (
	"log/slog"

	"git.home.luguber.info/inful/uniflow"
	"git.home.luguber.info/inful/uniflow/internal/logfields"
)

// SlogObserver logs store lifecycle hooks through slog. State publications
// and effect emissions log at debug, drops at warn, destruction at info.
type SlogObserver struct {
	logger *slog.Logger
	store  string
}

// NewSlogObserver creates an observer logging under the given store name.
// A nil logger falls back to slog.Default.
func NewSlogObserver(store string, logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger, store: store}
}

func (o *SlogObserver) OnStatePublished(state uniflow.State) {
	o.logger.Debug("state published",
		logfields.Store(o.store),
		logfields.State(uniflow.TypeName(state)))
}

func (o *SlogObserver) OnEffectEmitted(effect uniflow.Effect) {
	o.logger.Debug("effect emitted",
		logfields.Store(o.store),
		logfields.Effect(uniflow.TypeName(effect)))
}

func (o *SlogObserver) OnEffectDropped(effect uniflow.Effect, reason uniflow.DropReason) {
	o.logger.Warn("effect dropped",
		logfields.Store(o.store),
		logfields.Effect(uniflow.TypeName(effect)),
		logfields.DropReason(string(reason)))
}

func (o *SlogObserver) OnTaskRejected() {
	o.logger.Warn("task rejected after destroy", logfields.Store(o.store))
}

func (o *SlogObserver) OnDestroy() {
	o.logger.Info("store destroyed", logfields.Store(o.store))
}

var _ uniflow.Observer = (*SlogObserver)(nil)
