package feed

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/uniflow"
	"git.home.luguber.info/inful/uniflow/internal/logfields"
)

// Controller owns the feed store and implements uniflow.Dispatcher for the
// exported intents. Business operations run on store-scoped tasks; their
// outcomes re-enter the store as settlement intents so every state change
// goes through the reducer.
//
// Dispatch is safe for concurrent use but dispatches are not serialized:
// overlapping operations settle in completion order.
type Controller struct {
	store *uniflow.Store[State, Effect]
	repo  Repository
}

var _ uniflow.Dispatcher[Intent] = (*Controller)(nil)

// NewController creates a controller with a fresh store in the Loading
// state. The caller owns the controller's lifecycle and must call Destroy.
func NewController(repo Repository, opts ...uniflow.Option) *Controller {
	return &Controller{
		store: uniflow.New[State, Effect](Loading{}, opts...),
		repo:  repo,
	}
}

// Store exposes the underlying store for subscriptions, effect consumption,
// and middleware wiring.
func (c *Controller) Store() *uniflow.Store[State, Effect] {
	return c.store
}

// Destroy tears down the store and waits for in-flight operations.
func (c *Controller) Destroy() {
	c.store.Destroy()
}

// Dispatch routes an exported intent. Settlement intents are internal and
// ignored if dispatched from outside.
func (c *Controller) Dispatch(ctx context.Context, intent Intent) {
	switch in := intent.(type) {
	case Load:
		c.load()
	case Refresh:
		c.refresh()
	case ToggleLike:
		c.toggleLike(in)
	default:
		slog.Debug("ignoring internal intent",
			logfields.Store(StoreName),
			logfields.Intent(uniflow.TypeName(intent)))
	}
}

func (c *Controller) load() {
	uniflow.Reduce(c.store, Reducer, Intent(Load{}))
	c.store.Go(func(ctx context.Context) {
		posts, err := c.repo.List(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Warn("feed load failed", logfields.Store(StoreName), logfields.Error(err))
			uniflow.Reduce(c.store, Reducer, Intent(fetchFailed{err: err}))
			return
		}
		uniflow.Reduce(c.store, Reducer, Intent(fetchSucceeded{posts: posts}))
	})
}

func (c *Controller) refresh() {
	content, ok := c.store.State().(Content)
	if !ok || content.Refreshing {
		// Not loaded yet, or a refresh is already in flight.
		return
	}
	uniflow.Reduce(c.store, Reducer, Intent(Refresh{}))
	c.store.Go(func(ctx context.Context) {
		posts, err := c.repo.List(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Warn("feed refresh failed", logfields.Store(StoreName), logfields.Error(err))
			uniflow.Reduce(c.store, Reducer, Intent(refreshFailed{}))
			c.emit(ctx, Notice{Text: "Refresh failed, showing cached posts", Level: LevelWarn})
			return
		}
		uniflow.Reduce(c.store, Reducer, Intent(refreshSucceeded{posts: posts}))
	})
}

func (c *Controller) toggleLike(in ToggleLike) {
	content, ok := c.store.State().(Content)
	if !ok {
		return
	}
	post, ok := findPost(content.Posts, in.PostID)
	if !ok {
		slog.Debug("toggle like for unknown post",
			logfields.Store(StoreName),
			slog.String("post_id", in.PostID))
		return
	}
	wantLiked := !post.Liked

	// Optimistic flip; the toggle is rolled back by applying it again if the
	// write fails.
	uniflow.Reduce(c.store, Reducer, Intent(in))
	c.store.Go(func(ctx context.Context) {
		err := c.repo.SetLiked(ctx, in.PostID, wantLiked)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Warn("persisting like failed",
				logfields.Store(StoreName),
				slog.String("post_id", in.PostID),
				logfields.Error(err))
			uniflow.Reduce(c.store, Reducer, Intent(in))
			c.emit(ctx, Notice{Text: "Could not update like", Level: LevelWarn})
		}
	})
}

func (c *Controller) emit(ctx context.Context, notice Notice) {
	if err := c.store.Emit(ctx, Effect(notice)); err != nil {
		slog.Warn("notice dropped", logfields.Store(StoreName), logfields.Error(err))
	}
}

func findPost(posts []Post, postID string) (Post, bool) {
	for _, p := range posts {
		if p.ID == postID {
			return p, true
		}
	}
	return Post{}, false
}
