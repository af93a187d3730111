package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// likeCounter implements ports.LikeableRepository over the likes column of
// table. table is always one of the package constants.
type likeCounter struct {
	pool  *pgxpool.Pool
	table string
}

func (c likeCounter) Likes(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, c.pool).QueryRow(ctx, fmt.Sprintf(`SELECT likes FROM %s WHERE id = $1`, c.table), id).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrResourceNotFound
		}
		return 0, fmt.Errorf("read %s likes: %w", c.table, err)
	}
	return n, nil
}

func (c likeCounter) AddLikes(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	var n int64
	err := conn(ctx, c.pool).QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET likes = likes + $2 WHERE id = $1 RETURNING likes`, c.table), id, delta,
	).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrResourceNotFound
		}
		return 0, fmt.Errorf("update %s likes: %w", c.table, err)
	}
	return n, nil
}

func (c likeCounter) SetLikes(ctx context.Context, id uuid.UUID, likes int64) error {
	tag, err := conn(ctx, c.pool).Exec(ctx, fmt.Sprintf(`UPDATE %s SET likes = $2 WHERE id = $1`, c.table), id, likes)
	if err != nil {
		return fmt.Errorf("set %s likes: %w", c.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}
