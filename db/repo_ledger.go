package db

import (
	"Gin_postgres_redis_media_stock/models"
	"context"
)

// 流水只在 adjustQuantityTx 里写入，这里只读

type LedgerQuery struct {
	ItemID string
	Page   int
	Size   int
}

type PagedLedger struct {
	Total   int64                `json:"total"`
	Entries []models.StockLedger `json:"entries"`
}

func (r *Repo) ListLedger(ctx context.Context, q LedgerQuery) (*PagedLedger, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 50
	}

	tx := r.DB.WithContext(ctx).Model(&models.StockLedger{})
	if q.ItemID != "" {
		tx = tx.Where("item_id = ?", q.ItemID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []models.StockLedger
	if err := tx.Order("created_at DESC, id DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return &PagedLedger{Total: total, Entries: entries}, nil
}
