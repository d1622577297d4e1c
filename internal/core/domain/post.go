package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")
var ErrCategoryInvalid = errors.New("one or more categories are invalid")

// Comment is an append-only entry embedded in a post. Comments have no
// lifecycle of their own: they are never edited or removed.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a blog entry owned by its author. FeaturedImage holds the public
// path of the stored image file, empty when the post has none; the record
// and the file are kept 1:1 consistent by the post service.
type Post struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CategoryIDs   []string  `json:"categories"`
	FeaturedImage string    `json:"featured_image,omitempty"`
	Published     bool      `json:"published"`
	Comments      []Comment `json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
