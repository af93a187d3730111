// Package memory implements the storage ports in process memory, for
// development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

type engagementKey struct {
	kind     domain.ResourceKind
	resource uuid.UUID
	actor    uuid.UUID
}

// Store holds every collection behind one mutex. A transaction holds the
// mutex for its whole duration and keeps a journal of undo steps.
type Store struct {
	mu sync.Mutex

	users       map[uuid.UUID]*domain.User
	emails      map[string]uuid.UUID
	usernames   map[string]uuid.UUID
	forums      map[uuid.UUID]*domain.Forum
	topics      map[uuid.UUID]*domain.Topic
	comments    map[uuid.UUID]*domain.Comment
	engagements map[engagementKey]*domain.Engagement
	audit       []domain.AuditEvent
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:       make(map[uuid.UUID]*domain.User),
		emails:      make(map[string]uuid.UUID),
		usernames:   make(map[string]uuid.UUID),
		forums:      make(map[uuid.UUID]*domain.Forum),
		topics:      make(map[uuid.UUID]*domain.Topic),
		comments:    make(map[uuid.UUID]*domain.Comment),
		engagements: make(map[engagementKey]*domain.Engagement),
	}
}

var _ ports.TxManager = (*Store)(nil)

type txKey struct{}

// tx is the journal of an open transaction.
type tx struct {
	store *Store
	undo  []func()
}

func (t *tx) onRollback(fn func()) { t.undo = append(t.undo, fn) }

func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// WithTx runs fn with the store locked. If fn fails, every change made
// through its ctx is undone in reverse order. Nested calls join the outer
// transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t, ok := ctx.Value(txKey{}).(*tx); ok && t.store == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{store: s}
	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		t.rollback()
		return err
	}
	return nil
}

// run executes a single repository operation, inside the caller's
// transaction when ctx carries one.
func (s *Store) run(ctx context.Context, fn func(t *tx) error) error {
	if t, ok := ctx.Value(txKey{}).(*tx); ok && t.store == s {
		return fn(t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{store: s}
	if err := fn(t); err != nil {
		t.rollback()
		return err
	}
	return nil
}

// Users returns the user repository backed by s.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Forums returns the forum repository backed by s.
func (s *Store) Forums() *ForumRepository { return &ForumRepository{s: s} }

// Topics returns the topic repository backed by s.
func (s *Store) Topics() *TopicRepository { return &TopicRepository{s: s} }

// Comments returns the comment repository backed by s.
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }

// Engagements returns the engagement repository backed by s.
func (s *Store) Engagements() *EngagementRepository { return &EngagementRepository{s: s} }

// Audit returns the audit repository backed by s.
func (s *Store) Audit() *AuditRepository { return &AuditRepository{s: s} }

func (s *Store) Name() string { return "memory" }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// addLikes applies delta to *counter and journals the previous value.
func addLikes(t *tx, counter *int64, delta int64) int64 {
	prev := *counter
	*counter += delta
	t.onRollback(func() { *counter = prev })
	return *counter
}

func setLikes(t *tx, counter *int64, likes int64) {
	prev := *counter
	*counter = likes
	t.onRollback(func() { *counter = prev })
}
