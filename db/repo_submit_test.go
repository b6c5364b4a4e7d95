package db

import (
	"context"
	"testing"
	"time"

	"Gin_postgres_redis_media_stock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCart(t *testing.T) {
	ctx := context.Background()

	t.Run("two cart lines become one pending group and the cart empties", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		banner := seedItem(t, r, "Banner", models.TypeRequisition, 20)
		brochure := seedItem(t, r, "Brochure", models.TypeRequisition, 100)

		_, err := r.AddToCart(ctx, user.ID, banner.ID, models.TypeRequisition, 2)
		require.NoError(t, err)
		_, err = r.AddToCart(ctx, user.ID, brochure.ID, models.TypeRequisition, 30)
		require.NoError(t, err)

		res, err := r.SubmitCart(ctx, SubmitInput{
			UserID:          user.ID,
			RequisitionType: models.TypeRequisition,
			DeliveryMethod:  models.DeliverySend,
			DeliveryAddress: "3rd floor, media office",
			ReasonCode:      "event",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.LineCount)
		assert.Equal(t, 32, res.TotalQuantity)
		require.NotEmpty(t, res.GroupID)

		var logs []models.RequisitionLog
		require.NoError(t, r.DB.Where("group_id = ?", res.GroupID).Find(&logs).Error)
		require.Len(t, logs, 2)
		for _, l := range logs {
			assert.Equal(t, models.StatusPending, l.Status)
			assert.Equal(t, user.ID, l.UserID)
			assert.Equal(t, models.DeliverySend, l.DeliveryMethod)
			assert.Nil(t, l.ApprovedQuantity)
		}

		lines, err := r.ListCart(ctx, user.ID, models.TypeRequisition)
		require.NoError(t, err)
		assert.Empty(t, lines)

		// 提交不动库存
		after, err := r.FindItemByID(ctx, banner.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, after.Quantity)
		assert.Empty(t, ledgerEntries(t, r, ""))
	})

	t.Run("empty cart", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")

		_, err := r.SubmitCart(ctx, SubmitInput{
			UserID:          user.ID,
			RequisitionType: models.TypeRequisition,
			DeliveryMethod:  models.DeliveryPickup,
			ReasonCode:      "event",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("validation failure leaves cart and logs untouched", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Projector", models.TypeBorrow, 2)
		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeBorrow, 1)
		require.NoError(t, err)

		// 借用没填归还日
		_, err = r.SubmitCart(ctx, SubmitInput{
			UserID:          user.ID,
			RequisitionType: models.TypeBorrow,
			DeliveryMethod:  models.DeliveryPickup,
			ReasonCode:      "meeting",
		})
		require.ErrorIs(t, err, ErrValidation)

		var count int64
		require.NoError(t, r.DB.Model(&models.RequisitionLog{}).Count(&count).Error)
		assert.Zero(t, count)

		lines, err := r.ListCart(ctx, user.ID, models.TypeBorrow)
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("retired item in cart aborts the whole submission", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		ok := seedItem(t, r, "Banner", models.TypeRequisition, 20)
		gone := seedItem(t, r, "Old shirt", models.TypeRequisition, 20)

		_, err := r.AddToCart(ctx, user.ID, ok.ID, models.TypeRequisition, 1)
		require.NoError(t, err)
		_, err = r.AddToCart(ctx, user.ID, gone.ID, models.TypeRequisition, 1)
		require.NoError(t, err)

		retired := "retired"
		_, err = r.UpdateItem(ctx, gone.ID, UpdateItemInput{Status: &retired})
		require.NoError(t, err)

		_, err = r.SubmitCart(ctx, SubmitInput{
			UserID:          user.ID,
			RequisitionType: models.TypeRequisition,
			DeliveryMethod:  models.DeliveryPickup,
			ReasonCode:      "event",
		})
		require.ErrorIs(t, err, ErrValidation)

		var count int64
		require.NoError(t, r.DB.Model(&models.RequisitionLog{}).Count(&count).Error)
		assert.Zero(t, count)
		lines, err := r.ListCart(ctx, user.ID, models.TypeRequisition)
		require.NoError(t, err)
		assert.Len(t, lines, 2)
	})

	t.Run("borrow with due date and evaluation", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Projector", models.TypeBorrow, 2)
		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeBorrow, 1)
		require.NoError(t, err)

		due := time.Now().AddDate(0, 0, 7)
		res, err := r.SubmitCart(ctx, SubmitInput{
			UserID:          user.ID,
			RequisitionType: models.TypeBorrow,
			DeliveryMethod:  models.DeliveryPickup,
			DueDate:         &due,
			ReasonCode:      ReasonOther,
			ReasonNote:      "town hall rehearsal",
			Evaluation:      &SubmitEvaluation{Score: 4, Suggestion: "faster pickup please"},
		})
		require.NoError(t, err)

		var ev models.Evaluation
		require.NoError(t, r.DB.First(&ev, "group_id = ?", res.GroupID).Error)
		assert.Equal(t, 4, ev.Score)
		assert.Equal(t, models.TypeBorrow, ev.ActionType)
		assert.Equal(t, user.ID, ev.UserID)
	})

	t.Run("input validation table", func(t *testing.T) {
		r := setupTestDB(t)
		user := seedUser(t, r, "somchai")
		it := seedItem(t, r, "Banner", models.TypeRequisition, 20)
		_, err := r.AddToCart(ctx, user.ID, it.ID, models.TypeRequisition, 1)
		require.NoError(t, err)

		past := time.Now().AddDate(0, 0, -2)
		future := time.Now().AddDate(0, 0, 2)
		cases := []struct {
			name string
			in   SubmitInput
		}{
			{"unknown type", SubmitInput{UserID: user.ID, RequisitionType: 9, DeliveryMethod: models.DeliveryPickup, ReasonCode: "event"}},
			{"unknown delivery", SubmitInput{UserID: user.ID, RequisitionType: models.TypeRequisition, DeliveryMethod: "teleport", ReasonCode: "event"}},
			{"send without address", SubmitInput{UserID: user.ID, RequisitionType: models.TypeRequisition, DeliveryMethod: models.DeliverySend, ReasonCode: "event"}},
			{"missing reason", SubmitInput{UserID: user.ID, RequisitionType: models.TypeRequisition, DeliveryMethod: models.DeliveryPickup}},
			{"other reason without note", SubmitInput{UserID: user.ID, RequisitionType: models.TypeRequisition, DeliveryMethod: models.DeliveryPickup, ReasonCode: ReasonOther}},
			{"due date on a requisition", SubmitInput{UserID: user.ID, RequisitionType: models.TypeRequisition, DeliveryMethod: models.DeliveryPickup, ReasonCode: "event", DueDate: &future}},
			{"past due date", SubmitInput{UserID: user.ID, RequisitionType: models.TypeBorrow, DeliveryMethod: models.DeliveryPickup, ReasonCode: "event", DueDate: &past}},
			{"score out of range", SubmitInput{UserID: user.ID, RequisitionType: models.TypeRequisition, DeliveryMethod: models.DeliveryPickup, ReasonCode: "event", Evaluation: &SubmitEvaluation{Score: 6}}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := r.SubmitCart(ctx, tc.in)
				assert.ErrorIs(t, err, ErrValidation)
			})
		}
	})
}
