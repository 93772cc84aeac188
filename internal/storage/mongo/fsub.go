package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"links-share-bot/internal/fsub"
)

type FSubStore struct {
	coll *mongo.Collection
}

func NewFSubStore(d *DB) *FSubStore {
	return &FSubStore{coll: d.collection(fsubCollection)}
}

func (s *FSubStore) Add(ctx context.Context, channelID int64) error {
	_, err := s.coll.InsertOne(ctx, fsub.Channel{ChannelID: channelID, CreatedAt: time.Now()})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fsub.AlreadyExistsError(channelID)
		}
		return fmt.Errorf("add fsub channel: %w", err)
	}
	return nil
}

func (s *FSubStore) Remove(ctx context.Context, channelID int64) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"channel_id": channelID})
	if err != nil {
		return fmt.Errorf("remove fsub channel: %w", err)
	}
	if res.DeletedCount == 0 {
		return fsub.NotFoundError(channelID)
	}
	return nil
}

func (s *FSubStore) List(ctx context.Context) ([]int64, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, byInsertion())
	if err != nil {
		return nil, fmt.Errorf("list fsub channels: %w", err)
	}
	ids, err := pluckInt64(ctx, cursor, "channel_id")
	if err != nil {
		return nil, fmt.Errorf("list fsub channels: %w", err)
	}
	return ids, nil
}
