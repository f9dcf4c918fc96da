package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePosts() []Post {
	return []Post{
		{ID: "p1", Title: "First", Body: "hello", Liked: false, Likes: 10},
		{ID: "p2", Title: "Second", Body: "world", Liked: true, Likes: 3},
	}
}

func TestReduce_LoadEntersLoading(t *testing.T) {
	require.Equal(t, State(Loading{}), Reducer.Reduce(Failed{Message: "boom"}, Load{}))
	require.Equal(t, State(Loading{}), Reducer.Reduce(Content{Posts: samplePosts()}, Load{}))
}

func TestReduce_FetchSettlement(t *testing.T) {
	posts := samplePosts()

	next := Reducer.Reduce(Loading{}, fetchSucceeded{posts: posts})
	require.Equal(t, State(Content{Posts: posts}), next)

	failure := errors.New("dial tcp: refused")
	failed := Reducer.Reduce(Loading{}, fetchFailed{err: failure})
	require.Equal(t, State(Failed{Message: "could not load feed", Err: failure}), failed)
}

func TestReduce_ToggleLikeFlipsPost(t *testing.T) {
	state := Content{Posts: samplePosts()}

	next := Reducer.Reduce(state, ToggleLike{PostID: "p1"}).(Content)
	require.True(t, next.Posts[0].Liked)
	require.Equal(t, 11, next.Posts[0].Likes)
	require.Equal(t, state.Posts[1], next.Posts[1])

	// Applying the same toggle again restores the original post.
	back := Reducer.Reduce(next, ToggleLike{PostID: "p1"}).(Content)
	require.Equal(t, State(state), State(back))
}

func TestReduce_ToggleLikeUnliking(t *testing.T) {
	state := Content{Posts: samplePosts()}

	next := Reducer.Reduce(state, ToggleLike{PostID: "p2"}).(Content)
	require.False(t, next.Posts[1].Liked)
	require.Equal(t, 2, next.Posts[1].Likes)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	posts := samplePosts()
	state := Content{Posts: posts}

	Reducer.Reduce(state, ToggleLike{PostID: "p1"})

	require.False(t, posts[0].Liked)
	require.Equal(t, 10, posts[0].Likes)
}

func TestReduce_Deterministic(t *testing.T) {
	state := Content{Posts: samplePosts()}
	intent := ToggleLike{PostID: "p2"}

	first := Reducer.Reduce(state, intent)
	second := Reducer.Reduce(state, intent)
	require.Equal(t, first, second)
}

func TestReduce_RefreshTransitions(t *testing.T) {
	posts := samplePosts()

	started := Reducer.Reduce(Content{Posts: posts}, Refresh{}).(Content)
	require.True(t, started.Refreshing)
	require.Equal(t, posts, started.Posts)

	// A second Refresh while one is in flight changes nothing.
	again := Reducer.Reduce(started, Refresh{})
	require.Equal(t, State(started), again)

	settled := Reducer.Reduce(started, refreshFailed{}).(Content)
	require.False(t, settled.Refreshing)
	require.Equal(t, posts, settled.Posts)

	fresh := []Post{{ID: "p3", Title: "Third"}}
	replaced := Reducer.Reduce(started, refreshSucceeded{posts: fresh})
	require.Equal(t, State(Content{Posts: fresh}), replaced)
}

func TestReduce_TotalOnInapplicableIntents(t *testing.T) {
	require.Equal(t, State(Loading{}), Reducer.Reduce(Loading{}, Refresh{}))
	require.Equal(t, State(Loading{}), Reducer.Reduce(Loading{}, ToggleLike{PostID: "p1"}))
	require.Equal(t, State(Loading{}), Reducer.Reduce(Loading{}, refreshFailed{}))

	failed := Failed{Message: "boom"}
	require.Equal(t, State(failed), Reducer.Reduce(failed, refreshSucceeded{posts: samplePosts()}))
}

func TestReduce_ToggleLikeUnknownPost(t *testing.T) {
	state := Content{Posts: samplePosts()}
	next := Reducer.Reduce(state, ToggleLike{PostID: "missing"}).(Content)
	require.Equal(t, state.Posts, next.Posts)
}
