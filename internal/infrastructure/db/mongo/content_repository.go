package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

var (
	_ ports.ForumRepository   = (*ForumRepository)(nil)
	_ ports.TopicRepository   = (*TopicRepository)(nil)
	_ ports.CommentRepository = (*CommentRepository)(nil)
)

// findByID decodes the document with the given id into out.
func findByID(ctx context.Context, col *mongo.Collection, id uuid.UUID, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrResourceNotFound
		}
		return fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return nil
}

func parseIDs(raw ...string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("stored id %q: %w", s, err)
		}
		out[i] = id
	}
	return out, nil
}

// ── Forums ────────────────────────────────────────────────────────────────────

type ForumRepository struct {
	likeCounter
}

func NewForumRepository(db *mongo.Database) *ForumRepository {
	return &ForumRepository{likeCounter{col: db.Collection(forumsCollection)}}
}

type forumDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	AuthorID    string    `bson:"author_id"`
	Likes       int64     `bson:"likes"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (r *ForumRepository) Create(ctx context.Context, f *domain.Forum) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	_, err := r.col.InsertOne(ctx, forumDoc{
		ID:          f.ID.String(),
		Title:       f.Title,
		Description: f.Description,
		AuthorID:    f.AuthorID.String(),
		Likes:       f.Likes,
		CreatedAt:   f.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert forum: %w", err)
	}
	return nil
}

func (r *ForumRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Forum, error) {
	var doc forumDoc
	if err := findByID(ctx, r.col, id, &doc); err != nil {
		return nil, err
	}
	ids, err := parseIDs(doc.ID, doc.AuthorID)
	if err != nil {
		return nil, err
	}
	return &domain.Forum{
		ID:          ids[0],
		Title:       doc.Title,
		Description: doc.Description,
		AuthorID:    ids[1],
		Likes:       doc.Likes,
		CreatedAt:   doc.CreatedAt.UTC(),
	}, nil
}

// ── Topics ────────────────────────────────────────────────────────────────────

type TopicRepository struct {
	likeCounter
}

func NewTopicRepository(db *mongo.Database) *TopicRepository {
	return &TopicRepository{likeCounter{col: db.Collection(topicsCollection)}}
}

type topicDoc struct {
	ID        string    `bson:"_id"`
	ForumID   string    `bson:"forum_id"`
	AuthorID  string    `bson:"author_id"`
	Title     string    `bson:"title"`
	Body      string    `bson:"body"`
	Likes     int64     `bson:"likes"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *TopicRepository) Create(ctx context.Context, t *domain.Topic) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := r.col.InsertOne(ctx, topicDoc{
		ID:        t.ID.String(),
		ForumID:   t.ForumID.String(),
		AuthorID:  t.AuthorID.String(),
		Title:     t.Title,
		Body:      t.Body,
		Likes:     t.Likes,
		CreatedAt: t.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}

func (r *TopicRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	var doc topicDoc
	if err := findByID(ctx, r.col, id, &doc); err != nil {
		return nil, err
	}
	ids, err := parseIDs(doc.ID, doc.ForumID, doc.AuthorID)
	if err != nil {
		return nil, err
	}
	return &domain.Topic{
		ID:        ids[0],
		ForumID:   ids[1],
		AuthorID:  ids[2],
		Title:     doc.Title,
		Body:      doc.Body,
		Likes:     doc.Likes,
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}

// ── Comments ──────────────────────────────────────────────────────────────────

type CommentRepository struct {
	likeCounter
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{likeCounter{col: db.Collection(commentsCollection)}}
}

type commentDoc struct {
	ID        string    `bson:"_id"`
	TopicID   string    `bson:"topic_id"`
	AuthorID  string    `bson:"author_id"`
	Body      string    `bson:"body"`
	Likes     int64     `bson:"likes"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.col.InsertOne(ctx, commentDoc{
		ID:        c.ID.String(),
		TopicID:   c.TopicID.String(),
		AuthorID:  c.AuthorID.String(),
		Body:      c.Body,
		Likes:     c.Likes,
		CreatedAt: c.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var doc commentDoc
	if err := findByID(ctx, r.col, id, &doc); err != nil {
		return nil, err
	}
	ids, err := parseIDs(doc.ID, doc.TopicID, doc.AuthorID)
	if err != nil {
		return nil, err
	}
	return &domain.Comment{
		ID:        ids[0],
		TopicID:   ids[1],
		AuthorID:  ids[2],
		Body:      doc.Body,
		Likes:     doc.Likes,
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}
