// Package feedfile backs the feed repository with a JSON posts file on disk
// and a change watcher that re-dispatches Refresh when the file is edited.
package feedfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ferrors "git.home.luguber.info/inful/uniflow/internal/foundation/errors"
	"git.home.luguber.info/inful/uniflow/internal/feed"
)

// Repository reads posts from a JSON file and keeps like flags in memory on
// top of it. Writes go back to the same file so likes survive restarts.
type Repository struct {
	mu     sync.Mutex
	path   string
	render bool
}

var _ feed.Repository = (*Repository)(nil)

// NewRepository returns a repository over the given posts file. When render
// is true, List populates BodyHTML from each post's Markdown body.
func NewRepository(path string, render bool) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve posts path: %w", err)
	}
	return &Repository{path: abs, render: render}, nil
}

// Path returns the resolved posts file path.
func (r *Repository) Path() string {
	return r.path
}

// List reads and decodes the posts file.
func (r *Repository) List(ctx context.Context) ([]feed.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.readLocked()
	if err != nil {
		return nil, err
	}
	if r.render {
		posts = feed.RenderPosts(posts)
	}
	return posts, nil
}

// SetLiked updates one post's liked flag and like count and writes the file
// back atomically (write to temp file, then rename).
func (r *Repository) SetLiked(ctx context.Context, postID string, liked bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.readLocked()
	if err != nil {
		return err
	}

	found := false
	for i := range posts {
		if posts[i].ID != postID {
			continue
		}
		if posts[i].Liked == liked {
			return nil
		}
		posts[i].Liked = liked
		if liked {
			posts[i].Likes++
		} else {
			posts[i].Likes--
		}
		found = true
		break
	}
	if !found {
		return ferrors.ValidationError(fmt.Sprintf("unknown post %q", postID)).Build()
	}

	return r.writeLocked(posts)
}

func (r *Repository) readLocked() ([]feed.Post, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts file: %w", err)
	}

	var posts []feed.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts file %s: %w", r.path, err)
	}
	return posts, nil
}

func (r *Repository) writeLocked(posts []feed.Post) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write posts file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace posts file: %w", err)
	}
	return nil
}
