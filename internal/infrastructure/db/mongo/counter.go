package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// likeCounter implements ports.LikeableRepository over the "likes" field of
// a collection keyed by the resource UUID.
type likeCounter struct {
	col *mongo.Collection
}

type likesDoc struct {
	Likes int64 `bson:"likes"`
}

var likesProjection = bson.M{"likes": 1}

func (c likeCounter) Likes(ctx context.Context, id uuid.UUID) (int64, error) {
	var doc likesDoc
	err := c.col.FindOne(ctx, bson.M{"_id": id.String()}, options.FindOne().SetProjection(likesProjection)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrResourceNotFound
		}
		return 0, fmt.Errorf("read %s likes: %w", c.col.Name(), err)
	}
	return doc.Likes, nil
}

// AddLikes applies $inc and returns the post-update value in one round trip.
func (c likeCounter) AddLikes(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(likesProjection)

	var doc likesDoc
	err := c.col.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, bson.M{"$inc": bson.M{"likes": delta}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrResourceNotFound
		}
		return 0, fmt.Errorf("update %s likes: %w", c.col.Name(), err)
	}
	return doc.Likes, nil
}

func (c likeCounter) SetLikes(ctx context.Context, id uuid.UUID, likes int64) error {
	res, err := c.col.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": bson.M{"likes": likes}})
	if err != nil {
		return fmt.Errorf("set %s likes: %w", c.col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}
