package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"links-share-bot/internal/user"
)

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(d *DB) *UserStore {
	return &UserStore{coll: d.collection(usersCollection)}
}

func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now

	if _, err := s.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.AlreadyExistsError(u.TelegramID)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	var u user.User
	if err := s.coll.FindOne(ctx, bson.M{"telegram_id": telegramID}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.NotFoundError(telegramID)
		}
		return nil, fmt.Errorf("get user by telegram_id: %w", err)
	}
	return &u, nil
}

func (s *UserStore) ListIDs(ctx context.Context) ([]int64, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, byInsertion().SetProjection(bson.M{"telegram_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	ids, err := pluckInt64(ctx, cursor, "telegram_id")
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

func (s *UserStore) Delete(ctx context.Context, telegramID int64) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"telegram_id": telegramID})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return user.NotFoundError(telegramID)
	}
	return nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{}, options.Count())
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
