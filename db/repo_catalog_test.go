package db

import (
	"context"
	"testing"

	"Gin_postgres_redis_media_stock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustItemQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("increase writes one ledger entry", func(t *testing.T) {
		r := setupTestDB(t)
		admin := seedUser(t, r, "admin")
		it := seedItem(t, r, "Roll-up banner", models.TypeRequisition, 0)

		got, err := r.AdjustItemQuantity(ctx, it.ID, 10, "initial stock", admin.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Quantity)

		entries := ledgerEntries(t, r, it.ID)
		require.Len(t, entries, 1)
		assert.Equal(t, 10, entries[0].Delta)
		assert.Equal(t, 0, entries[0].QuantityBefore)
		assert.Equal(t, 10, entries[0].QuantityAfter)
		assert.Equal(t, models.LedgerIncrease, entries[0].UpdateType)
		assert.Equal(t, "initial stock", entries[0].Remark)
		assert.Equal(t, admin.ID, entries[0].ActorID)
	})

	t.Run("reduce below zero is rejected and leaves no trace", func(t *testing.T) {
		r := setupTestDB(t)
		admin := seedUser(t, r, "admin")
		it := seedItem(t, r, "Brochure", models.TypeRequisition, 5)

		_, err := r.AdjustItemQuantity(ctx, it.ID, -6, "oops", admin.ID)
		require.ErrorIs(t, err, ErrInsufficientStock)

		after, err := r.FindItemByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, after.Quantity)
		assert.Empty(t, ledgerEntries(t, r, it.ID))
	})

	t.Run("zero delta is a no-op", func(t *testing.T) {
		r := setupTestDB(t)
		admin := seedUser(t, r, "admin")
		it := seedItem(t, r, "Sticker", models.TypeRequisition, 3)

		got, err := r.AdjustItemQuantity(ctx, it.ID, 0, "", admin.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Quantity)
		assert.Empty(t, ledgerEntries(t, r, it.ID))
	})

	t.Run("ledger deltas sum to the net stock change", func(t *testing.T) {
		r := setupTestDB(t)
		admin := seedUser(t, r, "admin")
		it := seedItem(t, r, "Poster", models.TypeRequisition, 0)

		for _, delta := range []int{20, -5, 7, -12, 0} {
			_, err := r.AdjustItemQuantity(ctx, it.ID, delta, "restock cycle", admin.ID)
			require.NoError(t, err)
		}

		after, err := r.FindItemByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, after.Quantity)

		// 每次非零变动恰好一条流水，零变动没有
		entries := ledgerEntries(t, r, it.ID)
		require.Len(t, entries, 4)
		sum := 0
		for _, e := range entries {
			require.NotZero(t, e.Delta)
			assert.Equal(t, e.QuantityBefore+e.Delta, e.QuantityAfter)
			sum += e.Delta
		}
		assert.Equal(t, 10, sum)
	})

	t.Run("unknown item", func(t *testing.T) {
		r := setupTestDB(t)
		_, err := r.AdjustItemQuantity(ctx, "00000000-0000-0000-0000-000000000000", 1, "", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while pending lines exist", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Banner", models.TypeRequisition, 10)

		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 2)
		require.NoError(t, err)
		_, err = r.SubmitCart(ctx, SubmitInput{
			UserID:          user.ID,
			RequisitionType: models.TypeRequisition,
			DeliveryMethod:  models.DeliveryPickup,
			ReasonCode:      "event",
		})
		require.NoError(t, err)

		err = r.DeleteItem(ctx, it.ID)
		require.ErrorIs(t, err, ErrConflict)

		_, err = r.FindItemByID(ctx, it.ID)
		assert.NoError(t, err)
	})

	t.Run("clears cart rows with the item", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Banner", models.TypeRequisition, 10)

		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 2)
		require.NoError(t, err)

		require.NoError(t, r.DeleteItem(ctx, it.ID))

		lines, err := r.ListCart(ctx, user.ID, models.TypeRequisition)
		require.NoError(t, err)
		assert.Empty(t, lines)

		_, err = r.FindItemByID(ctx, it.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateItemLeavesQuantityAlone(t *testing.T) {
	ctx := context.Background()
	r := setupTestDB(t)
	it := seedItem(t, r, "Backdrop", models.TypeBorrow, 4)

	name := "Backdrop 3x2m"
	restricted := true
	got, err := r.UpdateItem(ctx, it.ID, UpdateItemInput{Name: &name, BorrowRestricted: &restricted})
	require.NoError(t, err)
	assert.Equal(t, "Backdrop 3x2m", got.Name)
	assert.True(t, got.BorrowRestricted)
	assert.Equal(t, 4, got.Quantity)
	assert.Empty(t, ledgerEntries(t, r, it.ID))
}
