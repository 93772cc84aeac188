package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"links-share-bot/internal/ban"
)

type BanStore struct {
	coll *mongo.Collection
}

func NewBanStore(d *DB) *BanStore {
	return &BanStore{coll: d.collection(bansCollection)}
}

func (s *BanStore) Add(ctx context.Context, telegramID int64) error {
	_, err := s.coll.InsertOne(ctx, ban.Entry{TelegramID: telegramID, CreatedAt: time.Now()})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ban.AlreadyBannedError(telegramID)
		}
		return fmt.Errorf("add ban: %w", err)
	}
	return nil
}

func (s *BanStore) Remove(ctx context.Context, telegramID int64) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"telegram_id": telegramID})
	if err != nil {
		return fmt.Errorf("remove ban: %w", err)
	}
	if res.DeletedCount == 0 {
		return ban.NotFoundError(telegramID)
	}
	return nil
}

// Clear 只删除读取到的 ID，期间新增的封禁保留
func (s *BanStore) Clear(ctx context.Context) ([]int64, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"telegram_id": bson.M{"$in": ids}}); err != nil {
		return nil, fmt.Errorf("clear bans: %w", err)
	}
	return ids, nil
}

func (s *BanStore) Exists(ctx context.Context, telegramID int64) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"telegram_id": telegramID})
	if err != nil {
		return false, fmt.Errorf("check ban: %w", err)
	}
	return n > 0, nil
}

func (s *BanStore) List(ctx context.Context) ([]int64, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, byInsertion())
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	ids, err := pluckInt64(ctx, cursor, "telegram_id")
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	return ids, nil
}
