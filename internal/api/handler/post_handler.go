package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/workhub/collab-api/internal/api/metrics"
	"github.com/workhub/collab-api/internal/core/domain"
	"github.com/workhub/collab-api/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations. Create and update
// accept multipart forms so an image can ride along; the 5 MB cap is
// enforced by the body limit middleware in front of these routes.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// imageField is the multipart field name of the attached image.
const imageField = "featuredImage"

type postRequest struct {
	Title       string   `json:"title" form:"title" validate:"required,min=5,max=255"`
	Content     string   `json:"content" form:"content" validate:"required,min=10"`
	Categories  []string `json:"categories" form:"categories"`
	Published   bool     `json:"published" form:"published"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

type listPostsResponse struct {
	Posts      []*domain.Post `json:"posts"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// List returns a page of posts, newest first. Public.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        search  query     string  false  "Case-insensitive match on title or content"
// @Param        filter  query     string  false  "published or draft"
// @Param        page    query     int     false  "Page (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  listPostsResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context(), ports.ListPostsInput{
		Search: c.QueryParam("search"),
		Filter: c.QueryParam("filter"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listPostsResponse{
		Posts:      result.Posts,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
}

// Get returns a single post. Public.
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Create inserts a post authored by the caller.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title          formData  string  true   "Title (5-255 chars)"
// @Param        content        formData  string  true   "Content (min 10 chars)"
// @Param        categories     formData  []string false "Category ids"
// @Param        published      formData  bool    false  "Published flag"
// @Param        featuredImage  formData  file    false  "Featured image (max 5 MB)"
// @Success      201  {object}  domain.Post
// @Failure      400  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, closeImage, err := imageFromRequest(c)
	if err != nil {
		return err
	}
	defer closeImage()

	post, err := h.service.Create(c.Request().Context(), identity, ports.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.Categories,
		Published:   req.Published,
		Image:       image,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(strconv.FormatBool(post.Published)).Inc()
	if image != nil {
		metrics.ImagesStoredTotal.Inc()
	}
	return c.JSON(http.StatusCreated, post)
}

// Update replaces a post within the caller's scope. Supplying a new image
// replaces the stored file.
func (h *PostHandler) Update(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, closeImage, err := imageFromRequest(c)
	if err != nil {
		return err
	}
	defer closeImage()

	post, err := h.service.Update(c.Request().Context(), identity, c.Param("id"), ports.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.Categories,
		Published:   req.Published,
		Image:       image,
	})
	if err != nil {
		return err
	}

	if image != nil {
		metrics.ImagesStoredTotal.Inc()
	}
	return c.JSON(http.StatusOK, post)
}

// Delete removes a post within the caller's scope.
func (h *PostHandler) Delete(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "post deleted successfully"})
}

// AddComment appends a comment to a post. Any authenticated identity may
// comment, not just the author.
func (h *PostHandler) AddComment(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comments, err := h.service.AddComment(c.Request().Context(), identity, c.Param("id"), req.Text)
	if err != nil {
		return err
	}

	metrics.CommentsAddedTotal.Inc()
	return c.JSON(http.StatusCreated, comments)
}

// imageFromRequest extracts the optional image from a multipart request.
// The returned close func is a no-op when no image was attached.
func imageFromRequest(c echo.Context) (*ports.ImageUpload, func(), error) {
	noop := func() {}

	header, err := c.FormFile(imageField)
	if err != nil {
		// JSON requests and multipart forms without the field both land
		// here; neither carries an image.
		return nil, noop, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}

	return &ports.ImageUpload{Filename: header.Filename, Reader: file}, func() { _ = file.Close() }, nil
}
