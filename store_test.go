package uniflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type counterState struct {
	N int
}

type addIntent struct {
	Delta int
}

type pingEffect struct {
	Seq int
}

var addReducer = ReducerFunc[counterState, addIntent](func(s counterState, in addIntent) counterState {
	return counterState{N: s.N + in.Delta}
})

func newCounterStore(opts ...Option) *Store[counterState, pingEffect] {
	return New[counterState, pingEffect](counterState{}, opts...)
}

func recvState(t *testing.T, ch <-chan counterState) counterState {
	t.Helper()
	select {
	case st, ok := <-ch:
		require.True(t, ok, "subscription closed unexpectedly")
		return st
	case <-time.After(250 * time.Millisecond):
		t.Fatal("timed out waiting for state")
		return counterState{}
	}
}

func TestStore_InitialState(t *testing.T) {
	s := New[counterState, pingEffect](counterState{N: 7})
	defer s.Destroy()

	require.Equal(t, 7, s.State().N)
}

func TestStore_PublishVisibleToReaders(t *testing.T) {
	s := newCounterStore()
	defer s.Destroy()

	s.Publish(counterState{N: 1})
	require.Equal(t, 1, s.State().N)

	s.Publish(counterState{N: 2})
	require.Equal(t, 2, s.State().N)
}

func TestStore_SubscriberSeesPublishOrder(t *testing.T) {
	s := newCounterStore()
	defer s.Destroy()

	ch, unsubscribe := s.Subscribe(8)
	defer unsubscribe()

	for i := 1; i <= 3; i++ {
		s.Publish(counterState{N: i})
	}

	require.Equal(t, 1, recvState(t, ch).N)
	require.Equal(t, 2, recvState(t, ch).N)
	require.Equal(t, 3, recvState(t, ch).N)
}

func TestStore_SlowSubscriberConflatesToLatest(t *testing.T) {
	s := newCounterStore()
	defer s.Destroy()

	ch, unsubscribe := s.Subscribe(1)
	defer unsubscribe()

	for i := 1; i <= 5; i++ {
		s.Publish(counterState{N: i})
	}

	// Intermediate states may be skipped, but the latest publish must be
	// the one left in the buffer.
	require.Equal(t, 5, recvState(t, ch).N)
}

func TestStore_UnsubscribeIsIdempotent(t *testing.T) {
	s := newCounterStore()
	defer s.Destroy()

	ch, unsubscribe := s.Subscribe(1)
	unsubscribe()
	unsubscribe()

	_, ok := <-ch
	require.False(t, ok)

	// Publishing after unsubscribe must not panic.
	s.Publish(counterState{N: 1})
}

func TestStore_Reduce(t *testing.T) {
	s := newCounterStore()
	defer s.Destroy()

	next := Reduce(s, addReducer, addIntent{Delta: 3})
	require.Equal(t, 3, next.N)
	require.Equal(t, 3, s.State().N)
}

func TestStore_ReduceConcurrentIncrements(t *testing.T) {
	s := newCounterStore()
	defer s.Destroy()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				Reduce(s, addReducer, addIntent{Delta: 1})
			}
		}()
	}
	wg.Wait()

	require.Equal(t, workers*perWorker, s.State().N)
}

func TestStore_EffectsDeliveredInOrderExactlyOnce(t *testing.T) {
	s := newCounterStore(WithEffectBuffer(8))
	defer s.Destroy()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Emit(context.Background(), pingEffect{Seq: i}))
	}

	for i := 1; i <= 3; i++ {
		select {
		case e := <-s.Effects():
			require.Equal(t, i, e.Seq)
		case <-time.After(250 * time.Millisecond):
			t.Fatalf("timed out waiting for effect %d", i)
		}
	}

	select {
	case e := <-s.Effects():
		t.Fatalf("unexpected extra effect: %+v", e)
	default:
	}
}

func TestStore_EffectsQueueWhileNoConsumer(t *testing.T) {
	s := newCounterStore(WithEffectBuffer(2))
	defer s.Destroy()

	require.NoError(t, s.Emit(context.Background(), pingEffect{Seq: 1}))
	require.NoError(t, s.Emit(context.Background(), pingEffect{Seq: 2}))

	require.Equal(t, 1, (<-s.Effects()).Seq)
	require.Equal(t, 2, (<-s.Effects()).Seq)
}

func TestStore_EmitBlockHonorsContext(t *testing.T) {
	s := newCounterStore(WithEffectBuffer(1))
	defer s.Destroy()

	require.NoError(t, s.Emit(context.Background(), pingEffect{Seq: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Emit(ctx, pingEffect{Seq: 2})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStore_EmitBlockUnblocksWhenConsumed(t *testing.T) {
	s := newCounterStore(WithEffectBuffer(1))
	defer s.Destroy()

	require.NoError(t, s.Emit(context.Background(), pingEffect{Seq: 1}))

	done := make(chan error, 1)
	go func() {
		done <- s.Emit(context.Background(), pingEffect{Seq: 2})
	}()

	require.Equal(t, 1, (<-s.Effects()).Seq)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(250 * time.Millisecond):
		t.Fatal("blocked emit did not complete after buffer space freed")
	}
	require.Equal(t, 2, (<-s.Effects()).Seq)
}

func TestStore_EmitDropOldest(t *testing.T) {
	s := newCounterStore(WithEffectBuffer(2), WithOverflowPolicy(OverflowDropOldest))
	defer s.Destroy()

	for i := 1; i <= 4; i++ {
		require.NoError(t, s.Emit(context.Background(), pingEffect{Seq: i}))
	}

	// Seq 1 and 2 were evicted to make room.
	require.Equal(t, 3, (<-s.Effects()).Seq)
	require.Equal(t, 4, (<-s.Effects()).Seq)
}

func TestStore_EmitFailPolicy(t *testing.T) {
	s := newCounterStore(WithEffectBuffer(1), WithOverflowPolicy(OverflowFail))
	defer s.Destroy()

	require.NoError(t, s.Emit(context.Background(), pingEffect{Seq: 1}))

	err := s.Emit(context.Background(), pingEffect{Seq: 2})
	require.ErrorIs(t, err, ErrEffectOverflow)

	// The queued effect is untouched.
	require.Equal(t, 1, (<-s.Effects()).Seq)
}

func TestStore_DestroyClosesEffectStream(t *testing.T) {
	s := newCounterStore()
	s.Destroy()

	_, ok := <-s.Effects()
	require.False(t, ok)
}

func TestStore_DestroyIsIdempotent(t *testing.T) {
	s := newCounterStore()
	s.Destroy()
	s.Destroy()
	require.True(t, s.Destroyed())
}

func TestStore_AfterDestroyEverythingIsSafe(t *testing.T) {
	s := newCounterStore()
	s.Publish(counterState{N: 1})
	s.Destroy()

	// Publish is a no-op.
	s.Publish(counterState{N: 99})
	require.Equal(t, 1, s.State().N)

	// Reduce is a no-op returning the frozen state.
	require.Equal(t, 1, Reduce(s, addReducer, addIntent{Delta: 5}).N)

	// Emit reports destruction.
	require.ErrorIs(t, s.Emit(context.Background(), pingEffect{Seq: 1}), ErrStoreDestroyed)

	// Tasks are refused.
	require.False(t, s.Go(func(context.Context) {}))

	// Subscriptions terminate immediately.
	ch, _ := s.Subscribe(1)
	_, ok := <-ch
	require.False(t, ok)
}

func TestStore_DestroyCancelsTasks(t *testing.T) {
	s := newCounterStore()

	started := make(chan struct{})
	canceled := make(chan struct{})
	ok := s.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(canceled)
	})
	require.True(t, ok)

	<-started
	s.Destroy()

	select {
	case <-canceled:
	case <-time.After(250 * time.Millisecond):
		t.Fatal("task was not canceled by destroy")
	}
}

func TestStore_DestroyUnblocksPendingEmit(t *testing.T) {
	s := newCounterStore(WithEffectBuffer(1))
	require.NoError(t, s.Emit(context.Background(), pingEffect{Seq: 1}))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Emit(context.Background(), pingEffect{Seq: 2})
	}()

	// Give the emitter a moment to block on the full buffer.
	time.Sleep(20 * time.Millisecond)
	go s.Destroy()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrStoreDestroyed)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("pending emit was not released by destroy")
	}
}

func TestStore_LateTaskPublishSuppressed(t *testing.T) {
	s := newCounterStore()
	s.Publish(counterState{N: 1})

	var emitErr error
	finished := make(chan struct{})
	s.Go(func(ctx context.Context) {
		<-ctx.Done()
		// Simulates a business operation completing after cancellation.
		s.Publish(counterState{N: 42})
		emitErr = s.Emit(context.Background(), pingEffect{Seq: 9})
		close(finished)
	})

	s.Destroy()
	<-finished

	require.ErrorIs(t, emitErr, ErrStoreDestroyed)
	require.Equal(t, 1, s.State().N)
}

type recordingObserver struct {
	mu        sync.Mutex
	published []State
	emitted   []Effect
	dropped   []DropReason
	rejected  int
	destroyed bool
}

func (r *recordingObserver) OnStatePublished(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, s)
}

func (r *recordingObserver) OnEffectEmitted(e Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitted = append(r.emitted, e)
}

func (r *recordingObserver) OnEffectDropped(_ Effect, reason DropReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, reason)
}

func (r *recordingObserver) OnTaskRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
}

func (r *recordingObserver) OnDestroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyed = true
}

func TestStore_ObserverHooks(t *testing.T) {
	rec := &recordingObserver{}
	s := newCounterStore(
		WithEffectBuffer(1),
		WithOverflowPolicy(OverflowFail),
		WithObserver(rec),
	)

	s.Publish(counterState{N: 1})
	require.NoError(t, s.Emit(context.Background(), pingEffect{Seq: 1}))
	require.ErrorIs(t, s.Emit(context.Background(), pingEffect{Seq: 2}), ErrEffectOverflow)

	s.Destroy()
	require.False(t, s.Go(func(context.Context) {}))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.published, 1)
	require.Len(t, rec.emitted, 1)
	require.Equal(t, []DropReason{DropOverflow}, rec.dropped)
	require.Equal(t, 1, rec.rejected)
	require.True(t, rec.destroyed)
}

func TestErrorsAreClassifiedSentinels(t *testing.T) {
	require.True(t, errors.Is(ErrStoreDestroyed, ErrStoreDestroyed))
	require.False(t, errors.Is(ErrStoreDestroyed, ErrEffectOverflow))
}
