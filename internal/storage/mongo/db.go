// Package mongo MongoDB 存储实现
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	bansCollection     = "banned_users"
	fsubCollection     = "fsub_channels"
	channelsCollection = "channels"

	connectTimeout = 10 * time.Second
)

// DB MongoDB 连接
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open 连接 MongoDB 并创建唯一索引
func Open(ctx context.Context, uri, name string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	d := &DB{client: client, db: client.Database(name)}
	if err := d.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return d, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	unique := map[string]string{
		usersCollection:    "telegram_id",
		bansCollection:     "telegram_id",
		fsubCollection:     "channel_id",
		channelsCollection: "channel_id",
	}
	for coll, key := range unique {
		_, err := d.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create index %s.%s: %w", coll, key, err)
		}
	}
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return d.client.Disconnect(ctx)
}

func (d *DB) collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// byInsertion 按插入顺序排序
func byInsertion() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

// pluckInt64 读取游标中每个文档的单个整数字段
func pluckInt64(ctx context.Context, cursor *mongo.Cursor, field string) ([]int64, error) {
	defer cursor.Close(ctx)

	var ids []int64
	for cursor.Next(ctx) {
		v, ok := cursor.Current.Lookup(field).AsInt64OK()
		if !ok {
			continue
		}
		ids = append(ids, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
