package ports

import (
	"context"

	"github.com/workhub/collab-api/internal/core/domain"
)

// ListPostsFilter carries all query parameters for listing posts. Post
// reads are public, so there is no ownership scope here.
type ListPostsFilter struct {
	Search    string // case-insensitive substring over title and content
	Published *bool  // optional
	Page      int    // 1-based
	Limit     int    // capped at 100 by the service
}

// PostUpdate is the full replacement state of a post update. An update
// replaces title, content, categories and published; FeaturedImage is only
// touched when SetImage is true.
type PostUpdate struct {
	Title         string
	Content       string
	CategoryIDs   []string
	Published     bool
	FeaturedImage string
	SetImage      bool
}

// PostRepository defines persistence for posts. Methods taking an authorID
// fold it into the filter when non-empty, making scoped mutations a single
// conditional write.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	// FindByID retrieves a post with no ownership filter (public read).
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// Find retrieves a post within the given author scope.
	Find(ctx context.Context, authorID, id string) (*domain.Post, error)
	// List returns a page of posts ordered newest first plus the total
	// count for the filter.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
	Update(ctx context.Context, authorID, id string, update PostUpdate) (*domain.Post, error)
	// Delete removes the post and returns the deleted record so the
	// caller can clean up its stored image.
	Delete(ctx context.Context, authorID, id string) (*domain.Post, error)
	// AddComment appends a comment and returns the refreshed post, or
	// domain.ErrPostNotFound when the id does not resolve.
	AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error)
}
