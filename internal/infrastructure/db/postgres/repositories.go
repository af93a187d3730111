package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

var (
	_ ports.UserRepository       = (*UserRepository)(nil)
	_ ports.ForumRepository      = (*ForumRepository)(nil)
	_ ports.TopicRepository      = (*TopicRepository)(nil)
	_ ports.CommentRepository    = (*CommentRepository)(nil)
	_ ports.EngagementRepository = (*EngagementRepository)(nil)
	_ ports.AuditRepository      = (*AuditRepository)(nil)
)

// --- Users ---

type UserRepository struct{ likeCounter }

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{likeCounter{pool: pool, table: "users"}}
}

const userColumns = `id, username, email, password_hash, likes, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Likes, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) findOne(ctx context.Context, sql string, arg any) (*domain.User, error) {
	var u domain.User
	err := conn(ctx, r.pool).QueryRow(ctx, sql, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Likes, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// --- Forums ---

type ForumRepository struct{ likeCounter }

func NewForumRepository(pool *pgxpool.Pool) *ForumRepository {
	return &ForumRepository{likeCounter{pool: pool, table: "forums"}}
}

func (r *ForumRepository) Create(ctx context.Context, f *domain.Forum) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO forums (id, title, description, author_id, likes, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.Title, f.Description, f.AuthorID, f.Likes, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert forum: %w", err)
	}
	return nil
}

func (r *ForumRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Forum, error) {
	var f domain.Forum
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, title, description, author_id, likes, created_at FROM forums WHERE id = $1`, id,
	).Scan(&f.ID, &f.Title, &f.Description, &f.AuthorID, &f.Likes, &f.CreatedAt)
	if err != nil {
		return nil, notFound(err, "forum")
	}
	return &f, nil
}

// --- Topics ---

type TopicRepository struct{ likeCounter }

func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{likeCounter{pool: pool, table: "topics"}}
}

func (r *TopicRepository) Create(ctx context.Context, t *domain.Topic) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO topics (id, forum_id, author_id, title, body, likes, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.ForumID, t.AuthorID, t.Title, t.Body, t.Likes, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}

func (r *TopicRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	var t domain.Topic
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, forum_id, author_id, title, body, likes, created_at FROM topics WHERE id = $1`, id,
	).Scan(&t.ID, &t.ForumID, &t.AuthorID, &t.Title, &t.Body, &t.Likes, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err, "topic")
	}
	return &t, nil
}

// --- Comments ---

type CommentRepository struct{ likeCounter }

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{likeCounter{pool: pool, table: "comments"}}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO comments (id, topic_id, author_id, body, likes, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.TopicID, c.AuthorID, c.Body, c.Likes, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var c domain.Comment
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, topic_id, author_id, body, likes, created_at FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.TopicID, &c.AuthorID, &c.Body, &c.Likes, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return &c, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrResourceNotFound
	}
	return fmt.Errorf("find %s: %w", what, err)
}

// --- Engagements ---

// EngagementRepository relies on UNIQUE (kind, resource_id, actor_id).
type EngagementRepository struct {
	pool *pgxpool.Pool
}

func NewEngagementRepository(pool *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{pool: pool}
}

func (r *EngagementRepository) Exists(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (bool, error) {
	var found bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM engagements WHERE kind = $1 AND resource_id = $2 AND actor_id = $3)`,
		string(kind), resourceID, actorID,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("lookup engagement: %w", err)
	}
	return found, nil
}

func (r *EngagementRepository) Insert(ctx context.Context, e *domain.Engagement) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO engagements (id, kind, resource_id, actor_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, string(e.Kind), e.ResourceID, e.ActorID, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyEngaged
		}
		return fmt.Errorf("insert engagement: %w", err)
	}
	return nil
}

func (r *EngagementRepository) Delete(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM engagements WHERE kind = $1 AND resource_id = $2 AND actor_id = $3`,
		string(kind), resourceID, actorID,
	)
	if err != nil {
		return fmt.Errorf("delete engagement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotEngaged
	}
	return nil
}

func (r *EngagementRepository) Count(ctx context.Context, kind domain.ResourceKind, resourceID uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM engagements WHERE kind = $1 AND resource_id = $2`, string(kind), resourceID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count engagements: %w", err)
	}
	return n, nil
}

// --- Audit ---

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEvent) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO audit_events (id, action, actor_id, address, kind, resource_id, reason, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, string(e.Action), nullableID(e.ActorID), e.Address, string(e.Kind), nullableID(e.ResourceID), e.Reason, e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func nullableID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
