package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/core/ports"
	"github.com/forumhub/forum-api/internal/core/service"
	"github.com/forumhub/forum-api/internal/infrastructure/db/memory"
	mongostore "github.com/forumhub/forum-api/internal/infrastructure/db/mongo"
	"github.com/forumhub/forum-api/internal/infrastructure/db/postgres"
	"github.com/forumhub/forum-api/internal/infrastructure/http/handlers"
	"github.com/forumhub/forum-api/internal/pkg/config"
)

// storage is one driver's set of repositories plus what the process needs to
// probe and close it.
type storage struct {
	tx          ports.TxManager
	users       ports.UserRepository
	forums      ports.ForumRepository
	topics      ports.TopicRepository
	comments    ports.CommentRepository
	engagements ports.EngagementRepository
	audit       ports.AuditRepository
	probe       handlers.Pinger
	close       func(ctx context.Context) error
}

func (s *storage) engagementRepos() service.EngagementRepos {
	return service.EngagementRepos{
		Tx:          s.tx,
		Engagements: s.engagements,
		Users:       s.users,
		Forums:      s.forums,
		Topics:      s.topics,
		Comments:    s.comments,
	}
}

func (s *storage) contentRepos() service.ContentRepos {
	return service.ContentRepos{
		Users:    s.users,
		Forums:   s.forums,
		Topics:   s.topics,
		Comments: s.comments,
	}
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return &storage{
			tx:          mongostore.NewTxManager(client),
			users:       mongostore.NewUserRepository(db),
			forums:      mongostore.NewForumRepository(db),
			topics:      mongostore.NewTopicRepository(db),
			comments:    mongostore.NewCommentRepository(db),
			engagements: mongostore.NewEngagementRepository(db),
			audit:       mongostore.NewAuditRepository(db),
			probe:       mongostore.Pinger{Client: client},
			close:       client.Disconnect,
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to postgres")
		return &storage{
			tx:          postgres.NewTxManager(pool),
			users:       postgres.NewUserRepository(pool),
			forums:      postgres.NewForumRepository(pool),
			topics:      postgres.NewTopicRepository(pool),
			comments:    postgres.NewCommentRepository(pool),
			engagements: postgres.NewEngagementRepository(pool),
			audit:       postgres.NewAuditRepository(pool),
			probe:       postgres.Pinger{Pool: pool},
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memory.New()
		return &storage{
			tx:          store,
			users:       store.Users(),
			forums:      store.Forums(),
			topics:      store.Topics(),
			comments:    store.Comments(),
			engagements: store.Engagements(),
			audit:       store.Audit(),
			probe:       store,
			close:       func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
