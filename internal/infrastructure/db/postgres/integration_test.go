package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/service"
)

// Set FORUM_TEST_POSTGRES_DSN to run these against a live database. The
// schema is applied by Open; rows use fresh ids so reruns do not collide.
const testDSNEnv = "FORUM_TEST_POSTGRES_DSN"

func TestIntegration_DuplicateLikeRollsBackCounter(t *testing.T) {
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}

	ctx := context.Background()
	pool, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	var (
		tx          = NewTxManager(pool)
		users       = NewUserRepository(pool)
		forums      = NewForumRepository(pool)
		engagements = NewEngagementRepository(pool)
	)

	now := time.Now().UTC().Truncate(time.Microsecond)
	suffix := uuid.NewString()[:8]
	actor := &domain.User{
		ID:           uuid.New(),
		Username:     "alice-" + suffix,
		Email:        "alice-" + suffix + "@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, users.Create(ctx, actor))
	forum := &domain.Forum{ID: uuid.New(), Title: "general", AuthorID: actor.ID, CreatedAt: now}
	require.NoError(t, forums.Create(ctx, forum))

	svc := service.NewEngagementService(service.EngagementRepos{
		Tx:          tx,
		Engagements: engagements,
		Users:       users,
		Forums:      forums,
		Topics:      NewTopicRepository(pool),
		Comments:    NewCommentRepository(pool),
	}, nil, zerolog.Nop())

	res, err := svc.Like(ctx, domain.KindForum, forum.ID, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Likes)

	_, err = svc.Like(ctx, domain.KindForum, forum.ID, actor.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyEngaged)

	// The unique constraint fires after the counter moved inside the same
	// transaction; the rollback must restore it.
	err = tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := forums.AddLikes(ctx, forum.ID, 1); err != nil {
			return err
		}
		return engagements.Insert(ctx, &domain.Engagement{
			Kind:       domain.KindForum,
			ResourceID: forum.ID,
			ActorID:    actor.ID,
			CreatedAt:  now,
		})
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyEngaged)

	likes, err := forums.Likes(ctx, forum.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes, "counter not rolled back")

	count, err := engagements.Count(ctx, domain.KindForum, forum.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
