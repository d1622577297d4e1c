package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/workhub/collab-api/internal/core/domain"
	"github.com/workhub/collab-api/internal/core/ports"
)

// PostService implements the post lifecycle: author-scoped CRUD, category
// reference validation, the attached-image lifecycle and the embedded
// comment collection.
type PostService struct {
	repo       ports.PostRepository
	categories ports.CategoryRepository
	files      ports.FileStore
	log        zerolog.Logger
}

func NewPostService(repo ports.PostRepository, categories ports.CategoryRepository, files ports.FileStore, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, categories: categories, files: files, log: log}
}

// Create validates category references, stores the attached image if any,
// and inserts the post with the caller stamped as author.
func (s *PostService) Create(ctx context.Context, identity domain.Identity, input ports.CreatePostInput) (*domain.Post, error) {
	if err := s.checkCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	imagePath := ""
	if input.Image != nil {
		path, err := s.files.Save(input.Image.Filename, input.Image.Reader)
		if err != nil {
			return nil, err
		}
		imagePath = path
	}

	post, err := s.repo.Create(ctx, &domain.Post{
		AuthorID:      identity.ID,
		Title:         input.Title,
		Content:       input.Content,
		CategoryIDs:   input.CategoryIDs,
		FeaturedImage: imagePath,
		Published:     input.Published,
		Comments:      []domain.Comment{},
	})
	if err != nil {
		// The record never made it in; don't leave the file behind.
		if imagePath != "" {
			s.files.Delete(imagePath)
		}
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID).Str("author_id", identity.ID).Msg("post created")
	return post, nil
}

// Get retrieves a post with no ownership filter: post reads are public.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of posts, newest first. Reads are public, so the
// listing is never ownership-scoped.
func (s *PostService) List(ctx context.Context, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	filter := ports.ListPostsFilter{
		Search: input.Search,
		Page:   page,
		Limit:  limit,
	}
	switch input.Filter {
	case "published":
		published := true
		filter.Published = &published
	case "draft":
		published := false
		filter.Published = &published
	}

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListPostsResult{
		Posts:      posts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Update replaces the post's content within the caller's scope. When a new
// image is supplied the new file is stored first, the record updated, and
// the previous file deleted best-effort afterwards: the record write is
// authoritative and is never rolled back over a cleanup failure.
func (s *PostService) Update(ctx context.Context, identity domain.Identity, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	if err := s.checkCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	current, err := s.repo.Find(ctx, identity.ScopeOwner(), id)
	if err != nil {
		return nil, err
	}

	update := ports.PostUpdate{
		Title:       input.Title,
		Content:     input.Content,
		CategoryIDs: input.CategoryIDs,
		Published:   input.Published,
	}

	if input.Image != nil {
		path, err := s.files.Save(input.Image.Filename, input.Image.Reader)
		if err != nil {
			return nil, err
		}
		update.FeaturedImage = path
		update.SetImage = true
	}

	post, err := s.repo.Update(ctx, identity.ScopeOwner(), id, update)
	if err != nil {
		if update.SetImage {
			s.files.Delete(update.FeaturedImage)
		}
		return nil, err
	}

	if update.SetImage && current.FeaturedImage != "" {
		if !s.files.Delete(current.FeaturedImage) {
			s.log.Warn().Str("post_id", id).Str("path", current.FeaturedImage).Msg("failed to delete replaced image")
		}
	}

	return post, nil
}

// Delete removes the post within the caller's scope, then deletes its
// stored image best-effort.
func (s *PostService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	post, err := s.repo.Delete(ctx, identity.ScopeOwner(), id)
	if err != nil {
		return err
	}

	if post.FeaturedImage != "" {
		if !s.files.Delete(post.FeaturedImage) {
			s.log.Warn().Str("post_id", id).Str("path", post.FeaturedImage).Msg("failed to delete post image")
		}
	}

	s.log.Info().Str("post_id", id).Str("caller_id", identity.ID).Msg("post deleted")
	return nil
}

// AddComment appends a comment to the post and returns the refreshed
// comment list. Any authenticated identity may comment; the post is only
// existence-checked, not ownership-filtered.
func (s *PostService) AddComment(ctx context.Context, identity domain.Identity, postID, text string) ([]domain.Comment, error) {
	post, err := s.repo.AddComment(ctx, postID, domain.Comment{
		AuthorID: identity.ID,
		Text:     text,
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// checkCategories fails with ErrCategoryInvalid unless every id resolves
// to an existing category. Runs before any write: a partially invalid list
// causes zero mutation.
func (s *PostService) checkCategories(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.categories.CountByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return domain.ErrCategoryInvalid
	}
	return nil
}
