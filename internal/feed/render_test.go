package feed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderBody(t *testing.T) {
	html, err := RenderBody("some **bold** text")
	require.NoError(t, err)
	require.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderBody_GFMTable(t *testing.T) {
	html, err := RenderBody("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	require.Contains(t, html, "<table>")
}

func TestRenderPosts(t *testing.T) {
	posts := []Post{
		{ID: "p1", Body: "# Title"},
		{ID: "p2", Body: "plain"},
	}

	rendered := RenderPosts(posts)

	require.Contains(t, rendered[0].BodyHTML, "<h1")
	require.Contains(t, rendered[1].BodyHTML, "<p>plain</p>")

	// Input is untouched.
	require.Empty(t, posts[0].BodyHTML)
}
