package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/workhub/collab-api/internal/core/domain"
	"github.com/workhub/collab-api/internal/core/ports"
)

type stubPostRepo struct {
	posts map[string]*domain.Post
	seq   int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	clone.CategoryIDs = append([]string(nil), p.CategoryIDs...)
	clone.Comments = append([]domain.Comment(nil), p.Comments...)
	return &clone
}

func (r *stubPostRepo) match(authorID, id string) (*domain.Post, bool) {
	post, ok := r.posts[id]
	if !ok || (authorID != "" && post.AuthorID != authorID) {
		return nil, false
	}
	return post, true
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.seq++
	stored := clonePost(post)
	stored.ID = fmt.Sprintf("post-%d", r.seq)
	stored.CreatedAt = time.Now()
	r.posts[stored.ID] = stored
	return clonePost(stored), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(post), nil
}

func (r *stubPostRepo) Find(_ context.Context, authorID, id string) (*domain.Post, error) {
	post, ok := r.match(authorID, id)
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(post), nil
}

func (r *stubPostRepo) List(_ context.Context, filter ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	var matched []*domain.Post
	for _, post := range r.posts {
		if filter.Published != nil && post.Published != *filter.Published {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(post.Title), needle) &&
				!strings.Contains(strings.ToLower(post.Content), needle) {
				continue
			}
		}
		matched = append(matched, clonePost(post))
	}

	// Newest first.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubPostRepo) Update(_ context.Context, authorID, id string, update ports.PostUpdate) (*domain.Post, error) {
	post, ok := r.match(authorID, id)
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	post.Title = update.Title
	post.Content = update.Content
	post.CategoryIDs = append([]string(nil), update.CategoryIDs...)
	post.Published = update.Published
	if update.SetImage {
		post.FeaturedImage = update.FeaturedImage
	}
	post.UpdatedAt = time.Now()
	return clonePost(post), nil
}

func (r *stubPostRepo) Delete(_ context.Context, authorID, id string) (*domain.Post, error) {
	post, ok := r.match(authorID, id)
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return clonePost(post), nil
}

func (r *stubPostRepo) AddComment(_ context.Context, postID string, comment domain.Comment) (*domain.Post, error) {
	post, ok := r.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	comment.ID = fmt.Sprintf("comment-%d", len(post.Comments)+1)
	comment.CreatedAt = time.Now()
	post.Comments = append(post.Comments, comment)
	return clonePost(post), nil
}

type stubCategoryRepo struct {
	categories map[string]*domain.Category
	seq        int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.Name == category.Name {
			return nil, domain.ErrCategoryExists
		}
	}
	r.seq++
	stored := *category
	stored.ID = fmt.Sprintf("cat-%d", r.seq)
	r.categories[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) CountByIDs(_ context.Context, ids []string) (int64, error) {
	var count int64
	for _, id := range ids {
		if _, ok := r.categories[id]; ok {
			count++
		}
	}
	return count, nil
}

// recordingFileStore records every Save and Delete so tests can assert on
// the image lifecycle.
type recordingFileStore struct {
	saved   []string
	deleted []string
	seq     int
}

func (s *recordingFileStore) Save(_ string, _ io.Reader) (string, error) {
	s.seq++
	path := fmt.Sprintf("/uploads/file-%d", s.seq)
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *recordingFileStore) Delete(path string) bool {
	s.deleted = append(s.deleted, path)
	return true
}

func newTestPostService() (*PostService, *stubPostRepo, *stubCategoryRepo, *recordingFileStore) {
	repo := newStubPostRepo()
	categories := newStubCategoryRepo()
	files := &recordingFileStore{}
	return NewPostService(repo, categories, files, zerolog.Nop()), repo, categories, files
}

func mustCategory(t *testing.T, categories *stubCategoryRepo, name string) string {
	t.Helper()
	c, err := categories.Create(context.Background(), &domain.Category{Name: name})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c.ID
}

func image(name string) *ports.ImageUpload {
	return &ports.ImageUpload{Filename: name, Reader: strings.NewReader("fake image bytes")}
}

func TestPostService_Create_StampsAuthor(t *testing.T) {
	svc, _, categories, _ := newTestPostService()
	catID := mustCategory(t, categories, "engineering")

	post, err := svc.Create(context.Background(), alice, ports.CreatePostInput{
		Title:       "launch notes",
		Content:     "everything that shipped this week",
		CategoryIDs: []string{catID},
		Published:   true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.AuthorID != alice.ID {
		t.Fatalf("expected author %s, got %s", alice.ID, post.AuthorID)
	}
	if post.Comments == nil || len(post.Comments) != 0 {
		t.Fatalf("expected empty comment list, got %v", post.Comments)
	}
}

func TestPostService_Create_InvalidCategoryWritesNothing(t *testing.T) {
	svc, repo, categories, files := newTestPostService()
	catID := mustCategory(t, categories, "engineering")

	_, err := svc.Create(context.Background(), alice, ports.CreatePostInput{
		Title:       "launch notes",
		Content:     "body",
		CategoryIDs: []string{catID, "cat-missing"},
		Image:       image("cover.png"),
	})
	if err != domain.ErrCategoryInvalid {
		t.Fatalf("expected ErrCategoryInvalid, got %v", err)
	}
	if len(repo.posts) != 0 {
		t.Fatalf("post was created despite invalid category")
	}
	if len(files.saved) != 0 {
		t.Fatalf("image was stored despite invalid category")
	}
}

func TestPostService_Create_WithImage(t *testing.T) {
	svc, _, _, files := newTestPostService()

	post, err := svc.Create(context.Background(), alice, ports.CreatePostInput{
		Title:   "with cover",
		Content: "body",
		Image:   image("cover.png"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.FeaturedImage == "" {
		t.Fatalf("expected a stored image path")
	}
	if len(files.saved) != 1 || files.saved[0] != post.FeaturedImage {
		t.Fatalf("stored path mismatch: saved=%v post=%s", files.saved, post.FeaturedImage)
	}
}

func TestPostService_Update_ScopeIsUnified(t *testing.T) {
	svc, _, _, files := newTestPostService()

	post, _ := svc.Create(context.Background(), alice, ports.CreatePostInput{Title: "mine", Content: "body"})

	_, err := svc.Update(context.Background(), bob, post.ID, ports.UpdatePostInput{
		Title:   "hijacked",
		Content: "body",
		Image:   image("new.png"),
	})
	if err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound for out-of-scope update, got %v", err)
	}
	// Scope check happens before the new image is stored.
	if len(files.saved) != 0 {
		t.Fatalf("image stored for a rejected update: %v", files.saved)
	}

	if _, err := svc.Update(context.Background(), bob, "no-such-post", ports.UpdatePostInput{Title: "x", Content: "y"}); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound for nonexistent post, got %v", err)
	}
}

func TestPostService_Update_ReplacesImageAndDeletesOld(t *testing.T) {
	svc, _, _, files := newTestPostService()

	post, _ := svc.Create(context.Background(), alice, ports.CreatePostInput{
		Title:   "with cover",
		Content: "body",
		Image:   image("old.png"),
	})
	oldPath := post.FeaturedImage

	updated, err := svc.Update(context.Background(), alice, post.ID, ports.UpdatePostInput{
		Title:   "with new cover",
		Content: "body",
		Image:   image("new.png"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FeaturedImage == oldPath || updated.FeaturedImage == "" {
		t.Fatalf("image path not replaced: %s", updated.FeaturedImage)
	}
	if len(files.deleted) != 1 || files.deleted[0] != oldPath {
		t.Fatalf("expected exactly the old image deleted, got %v", files.deleted)
	}
}

func TestPostService_Update_KeepsImageWhenNoneUploaded(t *testing.T) {
	svc, _, _, files := newTestPostService()

	post, _ := svc.Create(context.Background(), alice, ports.CreatePostInput{
		Title:   "with cover",
		Content: "body",
		Image:   image("cover.png"),
	})

	updated, err := svc.Update(context.Background(), alice, post.ID, ports.UpdatePostInput{
		Title:   "retitled",
		Content: "body",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FeaturedImage != post.FeaturedImage {
		t.Fatalf("image changed without an upload: %s", updated.FeaturedImage)
	}
	if len(files.deleted) != 0 {
		t.Fatalf("image deleted without replacement: %v", files.deleted)
	}
}

func TestPostService_Delete_CleansUpImage(t *testing.T) {
	svc, repo, _, files := newTestPostService()

	post, _ := svc.Create(context.Background(), alice, ports.CreatePostInput{
		Title:   "with cover",
		Content: "body",
		Image:   image("cover.png"),
	})

	if err := svc.Delete(context.Background(), alice, post.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.posts) != 0 {
		t.Fatalf("post still present after delete")
	}
	if len(files.deleted) != 1 || files.deleted[0] != post.FeaturedImage {
		t.Fatalf("expected stored image cleaned up, got %v", files.deleted)
	}
}

func TestPostService_Delete_OutOfScope(t *testing.T) {
	svc, repo, _, _ := newTestPostService()

	post, _ := svc.Create(context.Background(), alice, ports.CreatePostInput{Title: "mine", Content: "body"})

	if err := svc.Delete(context.Background(), bob, post.ID); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, ok := repo.posts[post.ID]; !ok {
		t.Fatalf("post removed by out-of-scope caller")
	}

	// Admin operates on the full collection.
	if err := svc.Delete(context.Background(), root, post.ID); err != nil {
		t.Fatalf("admin Delete: %v", err)
	}
}

func TestPostService_AddComment(t *testing.T) {
	svc, _, _, _ := newTestPostService()

	post, _ := svc.Create(context.Background(), alice, ports.CreatePostInput{Title: "mine", Content: "body"})

	// Commenting is existence-checked only: any identity may comment on
	// any post.
	comments, err := svc.AddComment(context.Background(), bob, post.ID, "nice work")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if comments[0].AuthorID != bob.ID || comments[0].Text != "nice work" {
		t.Fatalf("unexpected comment: %+v", comments[0])
	}

	comments, err = svc.AddComment(context.Background(), alice, post.ID, "thanks")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}

	if _, err := svc.AddComment(context.Background(), bob, "no-such-post", "hello"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_Get_IsPublic(t *testing.T) {
	svc, _, _, _ := newTestPostService()

	post, _ := svc.Create(context.Background(), alice, ports.CreatePostInput{Title: "mine", Content: "body"})

	got, err := svc.Get(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != post.ID {
		t.Fatalf("unexpected post: %+v", got)
	}
	if _, err := svc.Get(context.Background(), "no-such-post"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_List_FiltersAndOrder(t *testing.T) {
	svc, repo, _, _ := newTestPostService()

	// Seed with explicit timestamps so the newest-first order is testable.
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seed := []struct {
		title     string
		content   string
		published bool
	}{
		{"go modules deep dive", "dependency management", true},
		{"release checklist", "steps before shipping", false},
		{"observability primer", "metrics and logging in go services", true},
	}
	for i, s := range seed {
		post, err := svc.Create(context.Background(), alice, ports.CreatePostInput{
			Title:     s.title,
			Content:   s.content,
			Published: s.published,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		repo.posts[post.ID].CreatedAt = base.AddDate(0, 0, i)
	}

	result, err := svc.List(context.Background(), ports.ListPostsInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected total 3, got %d", result.Total)
	}
	if result.Posts[0].Title != "observability primer" {
		t.Fatalf("expected newest first, got %s", result.Posts[0].Title)
	}

	result, err = svc.List(context.Background(), ports.ListPostsInput{Filter: "published"})
	if err != nil {
		t.Fatalf("List published: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 published, got %d", result.Total)
	}

	result, err = svc.List(context.Background(), ports.ListPostsInput{Filter: "draft"})
	if err != nil {
		t.Fatalf("List drafts: %v", err)
	}
	if result.Total != 1 || result.Posts[0].Title != "release checklist" {
		t.Fatalf("unexpected draft listing: %+v", result.Posts)
	}

	result, err = svc.List(context.Background(), ports.ListPostsInput{Search: "GO"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 matches for case-insensitive search, got %d", result.Total)
	}
}
