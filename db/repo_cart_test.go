package db

import (
	"context"
	"testing"

	"Gin_postgres_redis_media_stock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate add merges into one row", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Brochure", models.TypeRequisition, 50)

		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 3)
		require.NoError(t, err)
		entry, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 4)
		require.NoError(t, err)
		assert.Equal(t, 7, entry.Quantity)

		lines, err := r.ListCart(ctx, user.ID, models.TypeRequisition)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 7, lines[0].Quantity)
		assert.Equal(t, "Brochure", lines[0].ItemName)
		assert.Equal(t, 50, lines[0].Available)
	})

	t.Run("merge past the limit is rejected, stored qty untouched", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Sticker", models.TypeRequisition, 500)

		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 60)
		require.NoError(t, err)
		_, err = r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 50)
		require.ErrorIs(t, err, ErrCartLimitExceeded)

		lines, err := r.ListCart(ctx, user.ID, models.TypeRequisition)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 60, lines[0].Quantity)
	})

	t.Run("single add over the limit", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Sticker", models.TypeRequisition, 500)

		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, models.MaxCartQuantity+1)
		assert.ErrorIs(t, err, ErrCartLimitExceeded)
	})

	t.Run("type mismatch", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Projector", models.TypeBorrow, 2)

		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 1)
		assert.Error(t, err)
	})

	t.Run("borrow restricted item", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		ctxb := context.Background()
		it := seedItem(t, r, "VIP backdrop", models.TypeBorrow, 2)
		restricted := true
		_, err := r.UpdateItem(ctxb, it.ID, UpdateItemInput{BorrowRestricted: &restricted})
		require.NoError(t, err)

		_, err = r.AddToCart(ctx, user.ID, it.ID, models.TypeBorrow, 1)
		assert.ErrorIs(t, err, ErrBorrowRestricted)
	})

	t.Run("retired item", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Old banner", models.TypeRequisition, 5)
		retired := "retired"
		_, err := r.UpdateItem(ctx, it.ID, UpdateItemInput{Status: &retired})
		require.NoError(t, err)

		_, err = r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Brochure", models.TypeRequisition, 5)

		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 0)
		assert.Error(t, err)
	})
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	r := setupTestDB(t)
	owner := seedUser(t, r, "owner")
	other := seedUser(t, r, "other")
	it := seedItem(t, r, "Brochure", models.TypeRequisition, 10)

	entry, err := r.AddToCart(ctx, owner.ID, it.ID, models.TypeRequisition, 2)
	require.NoError(t, err)

	// 别人的行删不掉
	err = r.RemoveFromCart(ctx, other.ID, entry.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.RemoveFromCart(ctx, owner.ID, entry.ID))
	err = r.RemoveFromCart(ctx, owner.ID, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearCartScopedByType(t *testing.T) {
	ctx := context.Background()
	r := setupTestDB(t)
	user := seedUser(t, r, "somchai")
	consumable := seedItem(t, r, "Brochure", models.TypeRequisition, 10)
	loaner := seedItem(t, r, "Projector", models.TypeBorrow, 2)

	_, err := r.AddToCart(ctx, user.ID, consumable.ID, models.TypeRequisition, 2)
	require.NoError(t, err)
	_, err = r.AddToCart(ctx, user.ID, loaner.ID, models.TypeBorrow, 1)
	require.NoError(t, err)

	require.NoError(t, r.ClearCart(ctx, user.ID, models.TypeRequisition))

	lines, err := r.ListCart(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, models.TypeBorrow, lines[0].RequisitionType)
}
