// Package feed is the reference feature built on uniflow: a posts feed with
// loading, refreshing, and optimistic like toggling. It demonstrates the
// intended shape of feature code: a sealed set of states/intents/effects, a
// pure reducer, and a Controller implementing uniflow.Dispatcher.
package feed

// StoreName labels this feature's store in logs, metrics, and the journal.
const StoreName = "feed"

// State is the closed set of feed rendering snapshots. Exactly one variant
// is current at any instant.
type State interface{ isFeedState() }

// Post is one feed item. Body is Markdown; BodyHTML is its rendered form
// when the repository chooses to render.
type Post struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	BodyHTML string `json:"body_html,omitempty"`
	Liked    bool   `json:"liked"`
	Likes    int    `json:"likes"`
}

// Loading is the initial state while the first fetch is in flight.
type Loading struct{}

func (Loading) isFeedState() {}

// Content is the loaded feed. Refreshing marks an in-flight refresh on top
// of existing posts.
type Content struct {
	Posts      []Post `json:"posts"`
	Refreshing bool   `json:"refreshing"`
}

func (Content) isFeedState() {}

// Failed is the terminal state of a failed initial load. The UI offers a
// retry affordance that dispatches Load again.
type Failed struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (Failed) isFeedState() {}
