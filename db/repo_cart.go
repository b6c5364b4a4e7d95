// db/repo_cart.go
package db

import (
	"Gin_postgres_redis_media_stock/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCartLimitExceeded = errors.New("cart quantity limit exceeded")
	ErrBorrowRestricted  = errors.New("item is restricted from borrowing")
)

// AddToCart 加入购物车；(user, item, type) 已存在就合并数量，合并后超过上限拒绝
func (r *Repo) AddToCart(ctx context.Context, userID, itemID string, reqType, qty int) (*models.CartEntry, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if qty > models.MaxCartQuantity {
		return nil, fmt.Errorf("%w: limit is %d", ErrCartLimitExceeded, models.MaxCartQuantity)
	}

	var out models.CartEntry
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 物品要存在、在役、类型匹配
		var it models.Item
		if err := lockForUpdate(tx).First(&it, "id = ? AND status = 'active'", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if it.ItemType != reqType {
			return fmt.Errorf("item type mismatch: item is type %d", it.ItemType)
		}
		if reqType == models.TypeBorrow && it.BorrowRestricted {
			return ErrBorrowRestricted
		}

		// 2) 锁住已有的购物车行再合并，防止并发加车翻过上限
		var entry models.CartEntry
		err := lockForUpdate(tx).
			Where("user_id = ? AND item_id = ? AND requisition_type = ?", userID, itemID, reqType).
			First(&entry).Error
		switch {
		case err == nil:
			newQty := entry.Quantity + qty
			if newQty > models.MaxCartQuantity {
				return fmt.Errorf("%w: have %d, adding %d, limit is %d",
					ErrCartLimitExceeded, entry.Quantity, qty, models.MaxCartQuantity)
			}
			if err := tx.Model(&entry).Update("quantity", newQty).Error; err != nil {
				return err
			}
			entry.Quantity = newQty
			out = entry
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = models.CartEntry{
				ID:              uuid.NewString(),
				UserID:          userID,
				ItemID:          itemID,
				RequisitionType: reqType,
				Quantity:        qty,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			out = entry
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CartLine 购物车行带上物品信息，前端直接能渲染
type CartLine struct {
	ID              string `json:"id"`
	ItemID          string `json:"itemId"`
	ItemName        string `json:"itemName"`
	Unit            string `json:"unit"`
	Available       int    `json:"available"` // 物品当前库存
	RequisitionType int    `json:"requisitionType"`
	Quantity        int    `json:"quantity"`
}

func (r *Repo) ListCart(ctx context.Context, userID string, reqType int) ([]CartLine, error) {
	q := r.DB.WithContext(ctx).
		Table(models.CartTable+" c").
		Select(`
			c.id, c.item_id, c.requisition_type, c.quantity,
			i.name     AS item_name,
			i.unit,
			i.quantity AS available
		`).
		Joins("JOIN "+models.ItemTable+" i ON i.id = c.item_id").
		Where("c.user_id = ?", userID).
		Order("c.created_at ASC")
	if reqType != 0 {
		q = q.Where("c.requisition_type = ?", reqType)
	}

	var lines []CartLine
	if err := q.Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveFromCart 只能删自己的行
func (r *Repo) RemoveFromCart(ctx context.Context, userID, entryID string) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.CartEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCart 提交后整批清掉该类型的行，不逐行删
func (r *Repo) ClearCart(ctx context.Context, userID string, reqType int) error {
	return clearCartTx(r.DB.WithContext(ctx), userID, reqType)
}

func clearCartTx(tx *gorm.DB, userID string, reqType int) error {
	return tx.
		Where("user_id = ? AND requisition_type = ?", userID, reqType).
		Delete(&models.CartEntry{}).Error
}
