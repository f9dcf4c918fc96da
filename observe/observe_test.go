package observe

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/uniflow"
)

func TestDispatchID_Roundtrip(t *testing.T) {
	ctx := WithDispatchID(context.Background(), "abc-123")
	require.Equal(t, "abc-123", DispatchID(ctx))
	require.Equal(t, "", DispatchID(context.Background()))
}

func TestEnsureDispatchID(t *testing.T) {
	ctx, id := EnsureDispatchID(context.Background())
	require.NotEmpty(t, id)
	require.Equal(t, id, DispatchID(ctx))

	// An existing ID is preserved.
	ctx2, id2 := EnsureDispatchID(ctx)
	require.Equal(t, id, id2)
	require.Equal(t, ctx, ctx2)
}

type likeIntent struct{ PostID string }

func TestLogged_DelegatesAndCorrelates(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seenIntent likeIntent
	var seenID string
	next := uniflow.DispatcherFunc[likeIntent](func(ctx context.Context, in likeIntent) {
		seenIntent = in
		seenID = DispatchID(ctx)
	})

	d := Logged[likeIntent]("feed", next, logger)
	d.Dispatch(context.Background(), likeIntent{PostID: "p1"})

	require.Equal(t, "p1", seenIntent.PostID)
	require.NotEmpty(t, seenID, "dispatch ID must reach the next dispatcher")

	out := buf.String()
	require.Contains(t, out, "dispatching intent")
	require.Contains(t, out, "dispatch returned")
	require.Contains(t, out, "observe.likeIntent")
	require.Contains(t, out, seenID)
}

func TestSlogObserver_LogsHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	obs := NewSlogObserver("feed", logger)
	obs.OnStatePublished(struct{ N int }{1})
	obs.OnEffectDropped(likeIntent{}, uniflow.DropOverflow)
	obs.OnDestroy()

	out := buf.String()
	require.Contains(t, out, "state published")
	require.Contains(t, out, "effect dropped")
	require.Contains(t, out, "drop_reason=overflow")
	require.Contains(t, out, "store destroyed")
}
