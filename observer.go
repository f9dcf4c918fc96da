package uniflow

// DropReason explains why an effect was not delivered.
type DropReason string

const (
	// DropOverflow: the bounded effect buffer was full (OverflowDropOldest
	// evicted a queued effect, or OverflowFail rejected the new one).
	DropOverflow DropReason = "overflow"
	// DropDestroyed: the effect was emitted after Destroy began.
	DropDestroyed DropReason = "destroyed"
)

// Observer receives lifecycle hooks from a Store. Implementations must be
// safe for concurrent use and must not block; hooks are invoked inline on
// the publishing/emitting goroutine.
//
// Observers are the seam for logging, metrics, and journaling; see the
// observe, metrics, and journal packages.
type Observer interface {
	OnStatePublished(state State)
	OnEffectEmitted(effect Effect)
	OnEffectDropped(effect Effect, reason DropReason)
	OnTaskRejected()
	OnDestroy()
}

// NoopObserver is an Observer that does nothing (the default).
type NoopObserver struct{}

func (NoopObserver) OnStatePublished(State)            {}
func (NoopObserver) OnEffectEmitted(Effect)            {}
func (NoopObserver) OnEffectDropped(Effect, DropReason) {}
func (NoopObserver) OnTaskRejected()                   {}
func (NoopObserver) OnDestroy()                        {}

// MultiObserver fans hooks out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) OnStatePublished(s State) {
	for _, o := range m {
		o.OnStatePublished(s)
	}
}

func (m MultiObserver) OnEffectEmitted(e Effect) {
	for _, o := range m {
		o.OnEffectEmitted(e)
	}
}

func (m MultiObserver) OnEffectDropped(e Effect, reason DropReason) {
	for _, o := range m {
		o.OnEffectDropped(e, reason)
	}
}

func (m MultiObserver) OnTaskRejected() {
	for _, o := range m {
		o.OnTaskRejected()
	}
}

func (m MultiObserver) OnDestroy() {
	for _, o := range m {
		o.OnDestroy()
	}
}
