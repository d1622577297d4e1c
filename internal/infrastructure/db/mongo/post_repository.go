package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workhub/collab-api/internal/core/domain"
	"github.com/workhub/collab-api/internal/core/ports"
)

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
}

type postDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	AuthorID      primitive.ObjectID   `bson:"author_id"`
	Title         string               `bson:"title"`
	Content       string               `bson:"content"`
	CategoryIDs   []primitive.ObjectID `bson:"categories"`
	FeaturedImage string               `bson:"featured_image,omitempty"`
	Published     bool                 `bson:"published"`
	Comments      []commentDoc         `bson:"comments"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func (d postDoc) toDomain() *domain.Post {
	categories := make([]string, 0, len(d.CategoryIDs))
	for _, id := range d.CategoryIDs {
		categories = append(categories, id.Hex())
	}
	comments := make([]domain.Comment, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, domain.Comment{
			ID:        c.ID.Hex(),
			AuthorID:  c.AuthorID.Hex(),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return &domain.Post{
		ID:            d.ID.Hex(),
		AuthorID:      d.AuthorID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		CategoryIDs:   categories,
		FeaturedImage: d.FeaturedImage,
		Published:     d.Published,
		Comments:      comments,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func categoryOIDs(ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

func postFilter(authorID, id string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if authorID != "" {
		author, err := objectID(authorID)
		if err != nil {
			return nil, err
		}
		filter["author_id"] = author
	}
	return filter, nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	author, err := objectID(post.AuthorID)
	if err != nil {
		return nil, err
	}
	categories, err := categoryOIDs(post.CategoryIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := postDoc{
		AuthorID:      author,
		Title:         post.Title,
		Content:       post.Content,
		CategoryIDs:   categories,
		FeaturedImage: post.FeaturedImage,
		Published:     post.Published,
		Comments:      []commentDoc{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.Find(ctx, "", id)
}

func (r *PostRepository) Find(ctx context.Context, authorID, id string) (*domain.Post, error) {
	filter, err := postFilter(authorID, id)
	if err != nil {
		return nil, err
	}

	var doc postDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) List(ctx context.Context, filter ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}
	if filter.Published != nil {
		query["published"] = *filter.Published
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]*domain.Post, 0)
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, doc.toDomain())
	}
	return posts, total, cur.Err()
}

// Update replaces the mutable fields through a single conditional write
// carrying the ownership predicate.
func (r *PostRepository) Update(ctx context.Context, authorID, id string, update ports.PostUpdate) (*domain.Post, error) {
	filter, err := postFilter(authorID, id)
	if err != nil {
		return nil, err
	}
	categories, err := categoryOIDs(update.CategoryIDs)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"title":      update.Title,
		"content":    update.Content,
		"categories": categories,
		"published":  update.Published,
		"updated_at": time.Now().UTC(),
	}
	if update.SetImage {
		set["featured_image"] = update.FeaturedImage
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, authorID, id string) (*domain.Post, error) {
	filter, err := postFilter(authorID, id)
	if err != nil {
		return nil, err
	}

	var doc postDoc
	if err := r.col.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return doc.toDomain(), nil
}

// AddComment pushes a comment onto the embedded collection. The post is
// only existence-checked, never ownership-filtered.
func (r *PostRepository) AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error) {
	oid, err := objectID(postID)
	if err != nil {
		return nil, err
	}
	author, err := objectID(comment.AuthorID)
	if err != nil {
		return nil, err
	}

	doc := commentDoc{
		ID:        primitive.NewObjectID(),
		AuthorID:  author,
		Text:      comment.Text,
		CreatedAt: time.Now().UTC(),
	}
	update := bson.M{
		"$push": bson.M{"comments": doc},
		"$set":  bson.M{"updated_at": doc.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated postDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return updated.toDomain(), nil
}

// EnsureIndexes creates the author and recency indexes.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "published", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
