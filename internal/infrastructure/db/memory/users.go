package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// UserRepository stores accounts.
type UserRepository struct{ s *Store }

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	email := strings.ToLower(u.Email)
	return r.s.run(ctx, func(t *tx) error {
		if _, taken := r.s.emails[email]; taken {
			return domain.ErrUserExists
		}
		if _, taken := r.s.usernames[u.Username]; taken {
			return domain.ErrUserExists
		}
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		clone := *u
		r.s.users[u.ID] = &clone
		r.s.emails[email] = u.ID
		r.s.usernames[u.Username] = u.ID
		t.onRollback(func() {
			delete(r.s.users, clone.ID)
			delete(r.s.emails, email)
			delete(r.s.usernames, clone.Username)
		})
		return nil
	})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out *domain.User
	err := r.s.run(ctx, func(*tx) error {
		id, ok := r.s.emails[strings.ToLower(email)]
		if !ok {
			return domain.ErrUserNotFound
		}
		clone := *r.s.users[id]
		out = &clone
		return nil
	})
	return out, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var out *domain.User
	err := r.s.run(ctx, func(*tx) error {
		u, ok := r.s.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		clone := *u
		out = &clone
		return nil
	})
	return out, err
}

func (r *UserRepository) counter(id uuid.UUID) (*int64, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return &u.Likes, nil
}

func (r *UserRepository) Likes(ctx context.Context, id uuid.UUID) (int64, error) {
	return likes(ctx, r.s, r.counter, id)
}

func (r *UserRepository) AddLikes(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	return add(ctx, r.s, r.counter, id, delta)
}

func (r *UserRepository) SetLikes(ctx context.Context, id uuid.UUID, n int64) error {
	return set(ctx, r.s, r.counter, id, n)
}

// counterFunc locates the likes field of one resource. It is called with the
// store locked.
type counterFunc func(id uuid.UUID) (*int64, error)

func likes(ctx context.Context, s *Store, find counterFunc, id uuid.UUID) (int64, error) {
	var n int64
	err := s.run(ctx, func(*tx) error {
		c, err := find(id)
		if err != nil {
			return err
		}
		n = *c
		return nil
	})
	return n, err
}

func add(ctx context.Context, s *Store, find counterFunc, id uuid.UUID, delta int64) (int64, error) {
	var n int64
	err := s.run(ctx, func(t *tx) error {
		c, err := find(id)
		if err != nil {
			return err
		}
		n = addLikes(t, c, delta)
		return nil
	})
	return n, err
}

func set(ctx context.Context, s *Store, find counterFunc, id uuid.UUID, n int64) error {
	return s.run(ctx, func(t *tx) error {
		c, err := find(id)
		if err != nil {
			return err
		}
		setLikes(t, c, n)
		return nil
	})
}
