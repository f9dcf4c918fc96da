package feed

import "git.home.luguber.info/inful/uniflow"

// Reducer is the pure transition function for the feed. It is total: an
// intent that does not apply to the current state returns the state
// unchanged. It never mutates its input; post slices are copied before
// editing.
var Reducer = uniflow.ReducerFunc[State, Intent](reduce)

func reduce(state State, intent Intent) State {
	switch in := intent.(type) {
	case Load:
		return Loading{}

	case fetchSucceeded:
		return Content{Posts: in.posts}

	case fetchFailed:
		return Failed{Message: "could not load feed", Err: in.err}

	case Refresh:
		content, ok := state.(Content)
		if !ok || content.Refreshing {
			return state
		}
		content.Refreshing = true
		return content

	case refreshSucceeded:
		if _, ok := state.(Content); !ok {
			return state
		}
		return Content{Posts: in.posts}

	case refreshFailed:
		content, ok := state.(Content)
		if !ok {
			return state
		}
		content.Refreshing = false
		return content

	case ToggleLike:
		content, ok := state.(Content)
		if !ok {
			return state
		}
		return Content{
			Posts:      togglePost(content.Posts, in.PostID),
			Refreshing: content.Refreshing,
		}
	}

	return state
}

// togglePost returns a copy of posts with the liked flag and like count of
// the matching post flipped. Toggling is its own inverse, which is what lets
// the controller roll back an optimistic toggle by applying it again.
func togglePost(posts []Post, postID string) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	for i := range out {
		if out[i].ID != postID {
			continue
		}
		if out[i].Liked {
			out[i].Liked = false
			out[i].Likes--
		} else {
			out[i].Liked = true
			out[i].Likes++
		}
	}
	return out
}
