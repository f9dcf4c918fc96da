package uniflow

// OverflowPolicy decides what Emit does when the effect buffer is full.
type OverflowPolicy string

const (
	// OverflowBlock makes Emit wait for buffer space, a consumer, context
	// cancellation, or store destruction. This is the default: effects are
	// never lost while the store is alive, at the cost of suspending the
	// emitter.
	OverflowBlock OverflowPolicy = "block"

	// OverflowDropOldest evicts the oldest queued effect to make room. Emit
	// never blocks; slow consumers lose the oldest undelivered effects.
	OverflowDropOldest OverflowPolicy = "drop_oldest"

	// OverflowFail rejects the new effect with ErrEffectOverflow. Emit never
	// blocks; the caller decides how to recover.
	OverflowFail OverflowPolicy = "fail"
)

// DefaultEffectBuffer is the effect channel capacity used when no
// WithEffectBuffer option is given.
const DefaultEffectBuffer = 64

type storeOptions struct {
	effectBuffer int
	overflow     OverflowPolicy
	observers    []Observer
}

// Option configures a Store at construction.
type Option func(*storeOptions)

// WithEffectBuffer sets the effect channel capacity. Values below 1 are
// clamped to 1 so the one-shot queue can always hold at least one effect
// while no consumer is attached.
func WithEffectBuffer(n int) Option {
	return func(o *storeOptions) {
		if n < 1 {
			n = 1
		}
		o.effectBuffer = n
	}
}

// WithOverflowPolicy sets the effect buffer overflow policy. Unknown values
// fall back to OverflowBlock.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(o *storeOptions) {
		switch p {
		case OverflowBlock, OverflowDropOldest, OverflowFail:
			o.overflow = p
		default:
			o.overflow = OverflowBlock
		}
	}
}

// WithObserver registers an observer for store lifecycle hooks. May be given
// multiple times; observers are invoked in registration order.
func WithObserver(obs Observer) Option {
	return func(o *storeOptions) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

func defaultOptions() storeOptions {
	return storeOptions{
		effectBuffer: DefaultEffectBuffer,
		overflow:     OverflowBlock,
	}
}

func (o storeOptions) observer() Observer {
	switch len(o.observers) {
	case 0:
		return NoopObserver{}
	case 1:
		return o.observers[0]
	default:
		return MultiObserver(o.observers)
	}
}
