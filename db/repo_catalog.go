// db/repo_catalog.go
package db

import (
	"Gin_postgres_redis_media_stock/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// Categories

func (r *Repo) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	cat := &models.Category{ID: uuid.NewString(), Name: strings.TrimSpace(name)}
	if err := r.DB.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

// Items

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Create(it).Error
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

type ItemsQuery struct {
	Q        string // 模糊搜索：名称/描述
	ItemType int    // 0=全部 1=领用 2=借用
	Status   string // "", "active", "retired"
	Page     int
	Size     int
}

type PagedItems struct {
	Total int64         `json:"total"`
	Items []models.Item `json:"items"`
}

func (r *Repo) ListItems(ctx context.Context, q ItemsQuery) (*PagedItems, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Item{})
	if s := strings.TrimSpace(q.Q); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pat, pat)
	}
	if q.ItemType != 0 {
		tx = tx.Where("item_type = ?", q.ItemType)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Item
	if err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedItems{Total: total, Items: items}, nil
}

type UpdateItemInput struct {
	Name             *string
	Unit             *string
	CategoryID       *string
	Image            *string
	BorrowRestricted *bool
	Description      *string
	Status           *string
}

// 基本信息编辑；库存数量不走这里，必须经 AdjustItemQuantity 留流水
func (r *Repo) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (*models.Item, error) {
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Unit != nil {
		updates["unit"] = *in.Unit
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if in.BorrowRestricted != nil {
		updates["borrow_restricted"] = *in.BorrowRestricted
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if len(updates) > 0 {
		res := r.DB.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.FindItemByID(ctx, id)
}

// 删除前确认没有挂着的待审批行，有就拒绝，退役用 status=retired
func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&models.RequisitionLog{}).
			Where("item_id = ? AND status = ?", id, models.StatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return fmt.Errorf("%w: item has pending requisition lines", ErrConflict)
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.CartEntry{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Item{ID: id})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AdjustItemQuantity 原子调整库存：锁行 → 校验不为负 → 带前置条件 UPDATE → 写流水。
// delta 为 0 时不动库存也不写流水。
func (r *Repo) AdjustItemQuantity(ctx context.Context, itemID string, delta int, remark, actorID string) (*models.Item, error) {
	if delta == 0 {
		return r.FindItemByID(ctx, itemID)
	}
	var out models.Item
	err := withConflictRetry(func() error {
		return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			it, err := adjustQuantityTx(tx, itemID, delta, remark, actorID)
			if err != nil {
				return err
			}
			out = *it
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// adjustQuantityTx 是库存变动的唯一入口，submit/approval 的事务也复用它，
// 保证“每次非零变动恰好一条流水”这一条不会被绕开。
func adjustQuantityTx(tx *gorm.DB, itemID string, delta int, remark, actorID string) (*models.Item, error) {
	var it models.Item
	if err := lockForUpdate(tx).First(&it, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	newQty := it.Quantity + delta
	if newQty < 0 {
		return nil, fmt.Errorf("%w: have %d, delta %d", ErrInsufficientStock, it.Quantity, delta)
	}

	// 防并发：即使没拿到行锁（sqlite），前置条件也挡得住丢失更新
	res := tx.Model(&models.Item{}).
		Where("id = ? AND quantity = ?", itemID, it.Quantity).
		Update("quantity", newQty)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: concurrent stock update on item %s", ErrConflict, itemID)
	}

	updateType := models.LedgerIncrease
	if delta < 0 {
		updateType = models.LedgerReduce
	}
	entry := &models.StockLedger{
		ID:             uuid.NewString(),
		ItemID:         itemID,
		Delta:          delta,
		QuantityBefore: it.Quantity,
		QuantityAfter:  newQty,
		UpdateType:     updateType,
		Remark:         remark,
		ActorID:        actorID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}

	it.Quantity = newQty
	return &it, nil
}
