package ports

import (
	"context"
	"io"

	"github.com/workhub/collab-api/internal/core/domain"
)

// ImageUpload is an attached image as received at the transport boundary,
// which has already enforced the size cap.
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// CreatePostInput carries the fields accepted when creating a post.
type CreatePostInput struct {
	Title       string
	Content     string
	CategoryIDs []string
	Published   bool
	Image       *ImageUpload // optional
}

// UpdatePostInput carries the replacement state of a post update. A nil
// Image leaves the current image untouched.
type UpdatePostInput struct {
	Title       string
	Content     string
	CategoryIDs []string
	Published   bool
	Image       *ImageUpload
}

// ListPostsInput carries the query parameters of the post list endpoint.
type ListPostsInput struct {
	Search string
	Filter string // "published", "draft" or empty
	Page   int
	Limit  int
}

// ListPostsResult is one page of posts.
type ListPostsResult struct {
	Posts      []*domain.Post
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PostService defines post operations. Reads are public; mutations are
// scoped to the author (or admin); commenting only requires the post to
// exist.
type PostService interface {
	Create(ctx context.Context, identity domain.Identity, input CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, input ListPostsInput) (*ListPostsResult, error)
	Update(ctx context.Context, identity domain.Identity, id string, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, identity domain.Identity, id string) error
	AddComment(ctx context.Context, identity domain.Identity, postID, text string) ([]domain.Comment, error)
}
