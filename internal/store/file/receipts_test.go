package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/receipt"
)

func testReceipt(orderID, userID string, created time.Time) receipt.Receipt {
	return receipt.Receipt{
		OrderID:     orderID,
		UserID:      userID,
		AmountMinor: 125000,
		Currency:    "NGN",
		Items:       []receipt.Item{{Name: "print", Quantity: 1, PriceMinor: 125000}},
		CreatedAt:   created,
	}
}

func TestReceiptsRepoCreateAndGet(t *testing.T) {
	repo := NewReceiptsRepo(t.TempDir())
	ctx := context.Background()

	rec := testReceipt("ord_1", "u1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByOrderID(ctx, "ord_1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, int64(125000), got.AmountMinor)

	err = repo.Create(ctx, testReceipt("ord_1", "u2", time.Now().UTC()))
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "duplicate order id: got %v", err)
}

func TestReceiptsRepoListByOwner(t *testing.T) {
	repo := NewReceiptsRepo(t.TempDir())
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testReceipt("ord_old", "u1", base)))
	require.NoError(t, repo.Create(ctx, testReceipt("ord_new", "u1", base.Add(time.Hour))))

	shared := testReceipt("ord_other", "u2", base)
	shared.Share("u1")
	require.NoError(t, repo.Create(ctx, shared))

	owned, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, owned, 2, "shared receipts must not appear in the owner list")
	assert.Equal(t, "ord_new", owned[0].OrderID, "newest first")
	assert.Equal(t, "ord_old", owned[1].OrderID)
}

func TestReceiptsRepoUpdatePersistsSharing(t *testing.T) {
	dir := t.TempDir()
	repo := NewReceiptsRepo(dir)
	ctx := context.Background()

	rec := testReceipt("ord_1", "u1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, rec))

	rec.Share("viewer")
	require.NoError(t, repo.Update(ctx, rec))

	// reopen to prove the grant hit disk
	reopened := NewReceiptsRepo(dir)
	got, err := reopened.GetByOrderID(ctx, "ord_1")
	require.NoError(t, err)
	assert.True(t, got.SharedWithUser("viewer"))

	err = repo.Update(ctx, testReceipt("ord_missing", "u1", time.Now().UTC()))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
