package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

var (
	_ ports.ForumRepository   = (*ForumRepository)(nil)
	_ ports.TopicRepository   = (*TopicRepository)(nil)
	_ ports.CommentRepository = (*CommentRepository)(nil)
)

// --- ForumRepository ---

type ForumRepository struct{ s *Store }

func (r *ForumRepository) Create(ctx context.Context, f *domain.Forum) error {
	return r.s.run(ctx, func(t *tx) error {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		clone := *f
		r.s.forums[f.ID] = &clone
		t.onRollback(func() { delete(r.s.forums, clone.ID) })
		return nil
	})
}

func (r *ForumRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Forum, error) {
	var out *domain.Forum
	err := r.s.run(ctx, func(*tx) error {
		f, ok := r.s.forums[id]
		if !ok {
			return domain.ErrResourceNotFound
		}
		clone := *f
		out = &clone
		return nil
	})
	return out, err
}

func (r *ForumRepository) counter(id uuid.UUID) (*int64, error) {
	f, ok := r.s.forums[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return &f.Likes, nil
}

func (r *ForumRepository) Likes(ctx context.Context, id uuid.UUID) (int64, error) {
	return likes(ctx, r.s, r.counter, id)
}

func (r *ForumRepository) AddLikes(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	return add(ctx, r.s, r.counter, id, delta)
}

func (r *ForumRepository) SetLikes(ctx context.Context, id uuid.UUID, n int64) error {
	return set(ctx, r.s, r.counter, id, n)
}

// --- TopicRepository ---

type TopicRepository struct{ s *Store }

func (r *TopicRepository) Create(ctx context.Context, tp *domain.Topic) error {
	return r.s.run(ctx, func(t *tx) error {
		if _, ok := r.s.forums[tp.ForumID]; !ok {
			return domain.ErrResourceNotFound
		}
		if tp.ID == uuid.Nil {
			tp.ID = uuid.New()
		}
		clone := *tp
		r.s.topics[tp.ID] = &clone
		t.onRollback(func() { delete(r.s.topics, clone.ID) })
		return nil
	})
}

func (r *TopicRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	var out *domain.Topic
	err := r.s.run(ctx, func(*tx) error {
		tp, ok := r.s.topics[id]
		if !ok {
			return domain.ErrResourceNotFound
		}
		clone := *tp
		out = &clone
		return nil
	})
	return out, err
}

func (r *TopicRepository) counter(id uuid.UUID) (*int64, error) {
	tp, ok := r.s.topics[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return &tp.Likes, nil
}

func (r *TopicRepository) Likes(ctx context.Context, id uuid.UUID) (int64, error) {
	return likes(ctx, r.s, r.counter, id)
}

func (r *TopicRepository) AddLikes(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	return add(ctx, r.s, r.counter, id, delta)
}

func (r *TopicRepository) SetLikes(ctx context.Context, id uuid.UUID, n int64) error {
	return set(ctx, r.s, r.counter, id, n)
}

// --- CommentRepository ---

type CommentRepository struct{ s *Store }

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return r.s.run(ctx, func(t *tx) error {
		if _, ok := r.s.topics[c.TopicID]; !ok {
			return domain.ErrResourceNotFound
		}
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		clone := *c
		r.s.comments[c.ID] = &clone
		t.onRollback(func() { delete(r.s.comments, clone.ID) })
		return nil
	})
}

func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var out *domain.Comment
	err := r.s.run(ctx, func(*tx) error {
		c, ok := r.s.comments[id]
		if !ok {
			return domain.ErrResourceNotFound
		}
		clone := *c
		out = &clone
		return nil
	})
	return out, err
}

func (r *CommentRepository) counter(id uuid.UUID) (*int64, error) {
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return &c.Likes, nil
}

func (r *CommentRepository) Likes(ctx context.Context, id uuid.UUID) (int64, error) {
	return likes(ctx, r.s, r.counter, id)
}

func (r *CommentRepository) AddLikes(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	return add(ctx, r.s, r.counter, id, delta)
}

func (r *CommentRepository) SetLikes(ctx context.Context, id uuid.UUID, n int64) error {
	return set(ctx, r.s, r.counter, id, n)
}
