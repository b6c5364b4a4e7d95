// db/repo_approval.go
package db

import (
	"Gin_postgres_redis_media_stock/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type LineApproval struct {
	LogID       string
	ApprovedQty int
}

// ApproveGroup 整组审批，要么全过要么全不过。
// 先把每行的库存校验完，再统一扣减写流水，中途任何一行不够就整批回滚。
func (r *Repo) ApproveGroup(ctx context.Context, groupID string, lines []LineApproval, adminID string) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: no lines to approve", ErrValidation)
	}
	for _, l := range lines {
		if l.ApprovedQty < 0 {
			return fmt.Errorf("%w: approved quantity must not be negative", ErrValidation)
		}
	}

	return withConflictRetry(func() error {
		return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := time.Now()
			for _, l := range lines {
				var entry models.RequisitionLog
				if err := lockForUpdate(tx).
					First(&entry, "id = ? AND group_id = ?", l.LogID, groupID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("%w: log line %s not in group %s", ErrNotFound, l.LogID, groupID)
					}
					return err
				}
				if entry.Status != models.StatusPending {
					return fmt.Errorf("%w: line %s already %s", ErrConflict, entry.ID, entry.Status)
				}
				if l.ApprovedQty > entry.Quantity {
					return fmt.Errorf("%w: approved %d exceeds requested %d", ErrValidation, l.ApprovedQty, entry.Quantity)
				}

				// 扣库存 + 流水，走统一入口；库存不够这里报 ErrInsufficientStock，整批回滚
				var stockAfter int
				if l.ApprovedQty > 0 {
					remark := fmt.Sprintf("approve group %s line %s", groupID, entry.ID)
					it, err := adjustQuantityTx(tx, entry.ItemID, -l.ApprovedQty, remark, adminID)
					if err != nil {
						return err
					}
					stockAfter = it.Quantity
				} else {
					it, err := r.findItemTx(tx, entry.ItemID)
					if err != nil {
						return err
					}
					stockAfter = it.Quantity
				}

				approvedQty := l.ApprovedQty
				if err := tx.Model(&models.RequisitionLog{}).
					Where("id = ? AND status = ?", entry.ID, models.StatusPending).
					Updates(map[string]any{
						"approved_quantity": approvedQty,
						"stock_after":       stockAfter,
						"status":            models.StatusApproved,
						"approved_by":       adminID,
						"approved_at":       now,
					}).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (r *Repo) findItemTx(tx *gorm.DB, itemID string) (*models.Item, error) {
	var it models.Item
	if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// RejectGroup 整组驳回，不动库存不写流水
func (r *Repo) RejectGroup(ctx context.Context, groupID, adminID, note string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&models.RequisitionLog{}).
			Where("group_id = ? AND status = ?", groupID, models.StatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending == 0 {
			return fmt.Errorf("%w: group %s has no pending lines", ErrNotFound, groupID)
		}

		updates := map[string]any{
			"status":      models.StatusNotApproved,
			"approved_by": adminID,
			"approved_at": time.Now(),
		}
		if note != "" {
			updates["reason_note"] = note
		}
		return tx.Model(&models.RequisitionLog{}).
			Where("group_id = ? AND status = ?", groupID, models.StatusPending).
			Updates(updates).Error
	})
}

// ReturnBorrow 登记借用归还：只有已审批的借用行能还，归还数量补回库存并写正向流水。
// 已归还的行再还一次按冲突算。
func (r *Repo) ReturnBorrow(ctx context.Context, logID string, returnedQty int, staffID string) (*models.RequisitionLog, error) {
	if returnedQty < 0 {
		return nil, fmt.Errorf("%w: returned quantity must not be negative", ErrValidation)
	}
	var out models.RequisitionLog
	err := withConflictRetry(func() error {
		return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var entry models.RequisitionLog
			if err := lockForUpdate(tx).First(&entry, "id = ?", logID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if entry.RequisitionType != models.TypeBorrow {
				return fmt.Errorf("%w: line %s is not a borrow", ErrValidation, logID)
			}
			if entry.Status != models.StatusApproved {
				return fmt.Errorf("%w: line %s is %s, expected approved", ErrConflict, logID, entry.Status)
			}
			approved := 0
			if entry.ApprovedQuantity != nil {
				approved = *entry.ApprovedQuantity
			}
			if returnedQty > approved {
				return fmt.Errorf("%w: returned %d exceeds approved %d", ErrValidation, returnedQty, approved)
			}

			if returnedQty > 0 {
				remark := fmt.Sprintf("return borrow line %s", entry.ID)
				if _, err := adjustQuantityTx(tx, entry.ItemID, returnedQty, remark, staffID); err != nil {
					return err
				}
			}

			now := time.Now()
			if err := tx.Model(&models.RequisitionLog{}).
				Where("id = ? AND status = ?", entry.ID, models.StatusApproved).
				Updates(map[string]any{
					"status":            models.StatusReturned,
					"returned_at":       now,
					"returned_quantity": returnedQty,
					"returned_to":       staffID,
				}).Error; err != nil {
				return err
			}

			entry.Status = models.StatusReturned
			entry.ReturnedAt = &now
			entry.ReturnedQuantity = &returnedQty
			entry.ReturnedTo = &staffID
			out = entry
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
