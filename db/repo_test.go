package db

import (
	"context"
	"testing"

	"Gin_postgres_redis_media_stock/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *Repo {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.User{}, &models.Invite{},
		&models.Category{}, &models.Item{},
		&models.CartEntry{}, &models.RequisitionLog{},
		&models.StockLedger{}, &models.Evaluation{},
	)
	require.NoError(t, err)
	return NewRepo(gdb)
}

func seedUser(t *testing.T, r *Repo, username string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		PasswordHash: "x",
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

// 夹具直接写 Quantity，不走流水，测流水的用例才好数条数
func seedItem(t *testing.T, r *Repo, name string, itemType, qty int) *models.Item {
	t.Helper()
	it := &models.Item{
		ID:       uuid.NewString(),
		Name:     name,
		Unit:     "piece",
		ItemType: itemType,
		Quantity: qty,
	}
	require.NoError(t, r.CreateItem(context.Background(), it))
	return it
}

func ledgerEntries(t *testing.T, r *Repo, itemID string) []models.StockLedger {
	t.Helper()
	var entries []models.StockLedger
	q := r.DB.Order("created_at ASC, id ASC")
	if itemID != "" {
		q = q.Where("item_id = ?", itemID)
	}
	require.NoError(t, q.Find(&entries).Error)
	return entries
}
