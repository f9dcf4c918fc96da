package feed

// Intent is the closed set of feed actions. The exported variants are
// dispatched by the UI; the unexported settlement variants are produced by
// the Controller when business operations resolve, so every transition runs
// through the one pure reducer.
type Intent interface{ isFeedIntent() }

// Load requests the initial fetch (or a retry after Failed).
type Load struct{}

func (Load) isFeedIntent() {}

// Refresh requests a re-fetch on top of loaded content.
type Refresh struct{}

func (Refresh) isFeedIntent() {}

// ToggleLike flips the liked flag of one post, optimistically.
type ToggleLike struct {
	PostID string `json:"post_id"`
}

func (ToggleLike) isFeedIntent() {}

type fetchSucceeded struct{ posts []Post }

func (fetchSucceeded) isFeedIntent() {}

type fetchFailed struct{ err error }

func (fetchFailed) isFeedIntent() {}

type refreshSucceeded struct{ posts []Post }

func (refreshSucceeded) isFeedIntent() {}

type refreshFailed struct{}

func (refreshFailed) isFeedIntent() {}
