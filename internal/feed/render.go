package feed

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderBody converts a post body from Markdown to HTML.
func RenderBody(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("failed to render post body: %w", err)
	}
	return buf.String(), nil
}

// RenderPosts returns a copy of posts with BodyHTML populated. A post whose
// body fails to render keeps an empty BodyHTML rather than failing the
// whole batch.
func RenderPosts(posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	for i := range out {
		rendered, err := RenderBody(out[i].Body)
		if err != nil {
			continue
		}
		out[i].BodyHTML = rendered
	}
	return out
}
