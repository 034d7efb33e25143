package file

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/notification"
)

func seedRepo(t *testing.T, repo *NotificationsRepo, userID string, n int) {
	t.Helper()

	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := repo.Create(context.Background(), notification.Notification{
			ID:        fmt.Sprintf("%s-n%02d", userID, i),
			UserID:    userID,
			Title:     fmt.Sprintf("notice %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestNotificationsRepoListPaginates(t *testing.T) {
	repo := NewNotificationsRepo(t.TempDir())
	seedRepo(t, repo, "u1", 25)
	seedRepo(t, repo, "u2", 3)

	page, total, err := repo.List(context.Background(), "u1", notification.ListFilter{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, page, 5)
	assert.Equal(t, "u1-n04", page[0].ID, "newest-first within the last page")
}

func TestNotificationsRepoMarkRead(t *testing.T) {
	repo := NewNotificationsRepo(t.TempDir())
	ctx := context.Background()
	seedRepo(t, repo, "u1", 2)

	got, err := repo.MarkRead(ctx, "u1", "u1-n00")
	require.NoError(t, err)
	assert.True(t, got.Read)
	require.NotNil(t, got.ReadAt)

	_, err = repo.MarkRead(ctx, "u2", "u1-n00")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "cannot mark someone else's notification")
}

func TestNotificationsRepoMarkManyReadBestEffort(t *testing.T) {
	repo := NewNotificationsRepo(t.TempDir())
	ctx := context.Background()
	seedRepo(t, repo, "u1", 3)
	seedRepo(t, repo, "u2", 1)

	updated, err := repo.MarkManyRead(ctx, "u1", []string{"u1-n00", "u1-n02", "u2-n00", "ghost"})
	require.NoError(t, err)
	require.Len(t, updated, 2, "foreign and unknown ids are skipped")
	for _, n := range updated {
		assert.True(t, n.Read)
	}

	other, _, err := repo.List(ctx, "u2", notification.ListFilter{})
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.False(t, other[0].Read, "u2's notification untouched")
}

func TestNotificationsRepoMarkManyReadSkipsAlreadyRead(t *testing.T) {
	repo := NewNotificationsRepo(t.TempDir())
	ctx := context.Background()
	seedRepo(t, repo, "u1", 2)

	_, err := repo.MarkRead(ctx, "u1", "u1-n00")
	require.NoError(t, err)

	updated, err := repo.MarkManyRead(ctx, "u1", []string{"u1-n00", "u1-n01"})
	require.NoError(t, err)
	require.Len(t, updated, 1, "already-read items are not reported again")
	assert.Equal(t, "u1-n01", updated[0].ID)
}

func TestNotificationsRepoMarkAllRead(t *testing.T) {
	repo := NewNotificationsRepo(t.TempDir())
	ctx := context.Background()
	seedRepo(t, repo, "u1", 4)

	_, err := repo.MarkRead(ctx, "u1", "u1-n01")
	require.NoError(t, err)

	updated, err := repo.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, updated, 3, "only previously-unread items are reported")

	unread, total, err := repo.List(ctx, "u1", notification.ListFilter{Status: notification.StatusUnread})
	require.NoError(t, err)
	assert.Empty(t, unread)
	assert.Equal(t, 0, total)
}
