package feed

import "context"

// Repository is the business-logic boundary the controller calls into. The
// reducer never sees it; fetch results re-enter the store as settlement
// intents.
type Repository interface {
	// List returns the current posts.
	List(ctx context.Context) ([]Post, error)

	// SetLiked persists the liked flag for one post.
	SetLiked(ctx context.Context, postID string, liked bool) error
}
