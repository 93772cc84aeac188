package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"links-share-bot/internal/channel"
)

type ChannelStore struct {
	coll *mongo.Collection
}

func NewChannelStore(d *DB) *ChannelStore {
	return &ChannelStore{coll: d.collection(channelsCollection)}
}

// Save 按 channel_id upsert 基础信息，不修改邀请字段
func (s *ChannelStore) Save(ctx context.Context, ch *channel.Channel) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":            ch.Title,
			"encoded_link":     ch.EncodedLink,
			"req_encoded_link": ch.ReqEncodedLink,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{
			"is_request": false,
			"created_at": now,
		},
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"channel_id": ch.ChannelID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save channel: %w", err)
	}
	return nil
}

func (s *ChannelStore) Get(ctx context.Context, channelID int64) (*channel.Channel, error) {
	var ch channel.Channel
	if err := s.coll.FindOne(ctx, bson.M{"channel_id": channelID}).Decode(&ch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, channel.NotFoundError(channelID)
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return &ch, nil
}

func (s *ChannelStore) Delete(ctx context.Context, channelID int64) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"channel_id": channelID})
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	if res.DeletedCount == 0 {
		return channel.NotFoundError(channelID)
	}
	return nil
}

func (s *ChannelStore) List(ctx context.Context) ([]*channel.Channel, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, byInsertion())
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer cursor.Close(ctx)

	var channels []*channel.Channel
	if err := cursor.All(ctx, &channels); err != nil {
		return nil, fmt.Errorf("decode channels: %w", err)
	}
	return channels, nil
}

func (s *ChannelStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count channels: %w", err)
	}
	return n, nil
}

func (s *ChannelStore) SetInvite(ctx context.Context, channelID int64, link string, isRequest bool, createdAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"invite_link":            link,
			"is_request":             isRequest,
			"invite_link_created_at": createdAt,
			"updated_at":             time.Now(),
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now(),
		},
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"channel_id": channelID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set invite: %w", err)
	}
	return nil
}

func (s *ChannelStore) SetOriginalLink(ctx context.Context, channelID int64, link string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"channel_id": channelID},
		bson.M{"$set": bson.M{"original_link": link, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("set original link: %w", err)
	}
	if res.MatchedCount == 0 {
		return channel.NotFoundError(channelID)
	}
	return nil
}
