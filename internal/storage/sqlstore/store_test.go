package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"links-share-bot/internal/ban"
	"links-share-bot/internal/channel"
	"links-share-bot/internal/database"
	"links-share-bot/internal/fsub"
	"links-share-bot/internal/storage/sqlite"
	"links-share-bot/internal/user"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.Open(":memory:", false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RunMigrations(context.Background(), sqlDB, "sqlite", nil))
	return db
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(openTestDB(t))

	require.NoError(t, store.Create(ctx, &user.User{TelegramID: 111111111, Username: "alice"}))
	require.NoError(t, store.Create(ctx, &user.User{TelegramID: 222222222}))

	err := store.Create(ctx, &user.User{TelegramID: 111111111})
	assert.ErrorIs(t, err, user.ErrAlreadyExists)

	u, err := store.GetByTelegramID(ctx, 111111111)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = store.GetByTelegramID(ctx, 333333333)
	assert.ErrorIs(t, err, user.ErrNotFound)

	ids, err := store.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{111111111, 222222222}, ids)

	require.NoError(t, store.Delete(ctx, 111111111))
	assert.ErrorIs(t, store.Delete(ctx, 111111111), user.ErrNotFound)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBanStore(t *testing.T) {
	ctx := context.Background()
	store := NewBanStore(openTestDB(t))

	require.NoError(t, store.Add(ctx, 111111111))
	require.NoError(t, store.Add(ctx, 222222222))
	assert.ErrorIs(t, store.Add(ctx, 111111111), ban.ErrAlreadyBanned)

	ok, err := store.Exists(ctx, 111111111)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Remove(ctx, 111111111))
	assert.ErrorIs(t, store.Remove(ctx, 111111111), ban.ErrNotFound)

	require.NoError(t, store.Add(ctx, 333333333))
	cleared, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{222222222, 333333333}, cleared)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	cleared, err = store.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, cleared)
}

func TestFSubStore(t *testing.T) {
	ctx := context.Background()
	store := NewFSubStore(openTestDB(t))

	require.NoError(t, store.Add(ctx, -1002))
	require.NoError(t, store.Add(ctx, -1001))
	assert.ErrorIs(t, store.Add(ctx, -1002), fsub.ErrAlreadyExists)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{-1002, -1001}, ids)

	require.NoError(t, store.Remove(ctx, -1002))
	assert.ErrorIs(t, store.Remove(ctx, -1002), fsub.ErrNotFound)
}

func TestChannelStore(t *testing.T) {
	ctx := context.Background()
	store := NewChannelStore(openTestDB(t))
	const id int64 = -1001234567890

	require.NoError(t, store.Save(ctx, &channel.Channel{ChannelID: id, Title: "News", EncodedLink: "tok", ReqEncodedLink: "tok"}))

	ch, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "News", ch.Title)
	assert.False(t, ch.HasInvite())

	createdAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetInvite(ctx, id, "https://t.me/+first", true, createdAt))

	// 重新保存只更新基础信息
	require.NoError(t, store.Save(ctx, &channel.Channel{ChannelID: id, Title: "Renamed", EncodedLink: "tok", ReqEncodedLink: "tok"}))

	ch, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ch.Title)
	require.True(t, ch.HasInvite())
	assert.Equal(t, "https://t.me/+first", ch.InviteLink)
	assert.True(t, ch.IsRequest)
	assert.True(t, createdAt.Equal(*ch.InviteLinkCreatedAt))

	require.NoError(t, store.SetInvite(ctx, id, "https://t.me/+second", false, createdAt.Add(time.Minute)))
	ch, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/+second", ch.InviteLink)
	assert.False(t, ch.IsRequest)

	require.NoError(t, store.SetOriginalLink(ctx, id, "https://example.com"))
	require.NoError(t, store.SetOriginalLink(ctx, id, "https://example.com"))
	assert.ErrorIs(t, store.SetOriginalLink(ctx, -1, "x"), channel.ErrNotFound)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://example.com", list[0].OriginalLink)

	require.NoError(t, store.Delete(ctx, id))
	assert.ErrorIs(t, store.Delete(ctx, id), channel.ErrNotFound)
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, channel.ErrNotFound)
}
