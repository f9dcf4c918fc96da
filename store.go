package uniflow

import (
	"context"
	"sync"

	ferrors "git.home.luguber.info/inful/uniflow/internal/foundation/errors"
)

// Store is the base state holder: it owns the authoritative current state
// and a bounded one-shot effect stream, and provides the task scope that
// dispatch implementations run asynchronous business operations in.
//
// Lifecycle: a Store is Active from New until Destroy, which is triggered
// once by the owning scope and is irreversible. After Destroy, Publish and
// Go are safe no-ops, Emit returns ErrStoreDestroyed, and the effect stream
// is closed so consumers observe end-of-stream.
//
// The state cell and effect buffer are safe for concurrent use from
// multiple goroutines without external locking. The Store does not
// serialize concurrent Dispatch calls; see the package documentation.
type Store[S State, E Effect] struct {
	mu        sync.RWMutex // guards state, subs, destroyed
	state     S
	subs      map[uint64]chan S
	nextSubID uint64
	destroyed bool

	effects  chan E
	overflow OverflowPolicy

	// taskMu guards stopping and WaitGroup.Add so Destroy never races
	// Add against Wait.
	taskMu   sync.Mutex
	stopping bool
	tasks    sync.WaitGroup
	emitters sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	destroyOnce sync.Once
	obs         Observer
}

// New constructs an Active store holding initial as its current state. The
// state cell is never absent after construction.
func New[S State, E Effect](initial S, opts ...Option) *Store[S, E] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Store[S, E]{
		state:    initial,
		subs:     make(map[uint64]chan S),
		effects:  make(chan E, o.effectBuffer),
		overflow: o.overflow,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		obs:      o.observer(),
	}
}

// State returns the latest published state. Safe to call at any time from
// any goroutine; a publish that returned before this call is always visible.
func (s *Store[S, E]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Publish replaces the current state and notifies subscribers in publish
// order. It is the only way to mutate the state cell. After Destroy it is a
// no-op, so late completions from canceled business operations are
// suppressed rather than crashing.
func (s *Store[S, E]) Publish(next S) {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.fanOutLocked(next)
	s.mu.Unlock()

	s.obs.OnStatePublished(next)
}

// Reduce applies a pure reducer to the current state and publishes the
// result as one atomic step under the state lock. Dispatch implementations
// use it for synchronous transitions (optimistic updates, rollbacks) without
// racing other reducers; a read-modify-write split across an await boundary
// does not get this protection.
func Reduce[S State, E Effect, I Intent](s *Store[S, E], r Reducer[S, I], intent I) S {
	s.mu.Lock()
	if s.destroyed {
		state := s.state
		s.mu.Unlock()
		return state
	}
	next := r.Reduce(s.state, intent)
	s.state = next
	s.fanOutLocked(next)
	s.mu.Unlock()

	s.obs.OnStatePublished(next)
	return next
}

// Emit enqueues an effect for one-shot FIFO delivery on the stream returned
// by Effects. Behavior when the bounded buffer is full depends on the
// configured OverflowPolicy; see the policy constants. Emit never blocks
// indefinitely: under OverflowBlock it suspends until space, ctx
// cancellation, or destruction.
func (s *Store[S, E]) Emit(ctx context.Context, effect E) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.taskMu.Lock()
	if s.stopping {
		s.taskMu.Unlock()
		s.obs.OnEffectDropped(effect, DropDestroyed)
		return ErrStoreDestroyed
	}
	s.emitters.Add(1)
	s.taskMu.Unlock()
	defer s.emitters.Done()

	switch s.overflow {
	case OverflowDropOldest:
		for {
			select {
			case s.effects <- effect:
				s.obs.OnEffectEmitted(effect)
				return nil
			case <-s.done:
				s.obs.OnEffectDropped(effect, DropDestroyed)
				return ErrStoreDestroyed
			default:
			}
			select {
			case dropped := <-s.effects:
				s.obs.OnEffectDropped(dropped, DropOverflow)
			default:
			}
		}

	case OverflowFail:
		select {
		case s.effects <- effect:
			s.obs.OnEffectEmitted(effect)
			return nil
		case <-s.done:
			s.obs.OnEffectDropped(effect, DropDestroyed)
			return ErrStoreDestroyed
		default:
			s.obs.OnEffectDropped(effect, DropOverflow)
			return ErrEffectOverflow
		}

	default: // OverflowBlock
		select {
		case s.effects <- effect:
			s.obs.OnEffectEmitted(effect)
			return nil
		case <-s.done:
			s.obs.OnEffectDropped(effect, DropDestroyed)
			return ErrStoreDestroyed
		case <-ctx.Done():
			return ferrors.WrapError(ctx.Err(), ferrors.CategoryRuntime, "effect emit canceled").
				WithContext("effect", TypeName(effect)).
				Build()
		}
	}
}

// Effects returns the one-shot effect stream: a lazy, ordered,
// finite-per-session sequence. Each queued effect is delivered exactly once
// to whichever consumer receives it; a single continuous consumer observes
// emission order. The channel is closed by Destroy.
func (s *Store[S, E]) Effects() <-chan E {
	return s.effects
}

// Subscribe registers a state subscriber and returns its channel plus an
// unsubscribe function (idempotent). The channel is conflated: when the
// subscriber falls behind, the oldest buffered state is dropped so the most
// recent publishes remain deliverable. Order is preserved; intermediate
// states may be skipped. Publish never blocks on subscribers.
//
// After Destroy, Subscribe returns an already-closed channel.
func (s *Store[S, E]) Subscribe(buffer int) (<-chan S, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan S, buffer)

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
	return ch, unsubscribe
}

// fanOutLocked delivers a state to all subscribers without blocking. Callers
// hold s.mu, which also serializes fan-out so subscribers see publish order.
func (s *Store[S, E]) fanOutLocked(state S) {
	for _, ch := range s.subs {
		select {
		case ch <- state:
			continue
		default:
		}
		// Full: conflate by evicting the oldest buffered state.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}

// Go runs fn as a task bound to the store lifecycle: fn receives the store
// context, which is canceled by Destroy, and Destroy waits for all tasks to
// return. Go reports false (and starts nothing) once destruction has begun.
func (s *Store[S, E]) Go(fn func(ctx context.Context)) bool {
	if fn == nil {
		return false
	}

	s.taskMu.Lock()
	if s.stopping {
		s.taskMu.Unlock()
		s.obs.OnTaskRejected()
		return false
	}
	s.tasks.Add(1)
	s.taskMu.Unlock()

	go func() {
		defer s.tasks.Done()
		fn(s.ctx)
	}()
	return true
}

// Context returns the store lifecycle context, canceled by Destroy. Dispatch
// implementations thread it through business calls made outside Go.
func (s *Store[S, E]) Context() context.Context {
	return s.ctx
}

// Destroyed reports whether Destroy has begun.
func (s *Store[S, E]) Destroyed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.destroyed
}

// Destroy tears the store down: Active -> Destroyed, irreversibly.
//
// It stops accepting tasks, publishes, and emits; cancels the store context
// so in-flight business operations unwind; waits for tasks and in-flight
// emitters; then closes the effect stream and all state subscriptions.
// Destroy is idempotent and blocks until teardown is complete.
func (s *Store[S, E]) Destroy() {
	s.destroyOnce.Do(func() {
		s.taskMu.Lock()
		s.stopping = true
		s.taskMu.Unlock()

		s.mu.Lock()
		s.destroyed = true
		s.mu.Unlock()

		s.cancel()
		close(s.done)

		s.tasks.Wait()
		s.emitters.Wait()
		close(s.effects)

		s.mu.Lock()
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
		s.mu.Unlock()

		s.obs.OnDestroy()
	})
}
