package observe

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/uniflow"
	"git.home.luguber.info/inful/uniflow/internal/logfields"
)

type loggedDispatcher[I uniflow.Intent] struct {
	next   uniflow.Dispatcher[I]
	logger *slog.Logger
	store  string
}

// Logged wraps a dispatcher so every dispatch is logged with the intent
// type, a correlation ID, and the synchronous dispatch duration. The
// correlation ID is attached to the context handed to the next dispatcher,
// so business-layer logs can carry it too.
func Logged[I uniflow.Intent](store string, next uniflow.Dispatcher[I], logger *slog.Logger) uniflow.Dispatcher[I] {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggedDispatcher[I]{next: next, logger: logger, store: store}
}

func (d *loggedDispatcher[I]) Dispatch(ctx context.Context, intent I) {
	ctx, id := EnsureDispatchID(ctx)

	d.logger.Debug("dispatching intent",
		logfields.Store(d.store),
		logfields.Intent(uniflow.TypeName(intent)),
		logfields.DispatchID(id))

	start := time.Now()
	d.next.Dispatch(ctx, intent)

	d.logger.Debug("dispatch returned",
		logfields.Store(d.store),
		logfields.Intent(uniflow.TypeName(intent)),
		logfields.DispatchID(id),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
}
