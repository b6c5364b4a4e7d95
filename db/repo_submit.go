// db/repo_submit.go
package db

import (
	"Gin_postgres_redis_media_stock/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrValidation = errors.New("validation failed")

// 用途填 other 时必须写清楚具体用途
const ReasonOther = "other"

type SubmitInput struct {
	UserID          string
	RequisitionType int // 1=领用 2=借用
	DeliveryMethod  string
	DeliveryAddress string     // send 时必填
	DueDate         *time.Time // 借用必填，当天或以后
	ReasonCode      string
	ReasonNote      string
	Evaluation      *SubmitEvaluation // 可选问卷
}

type SubmitEvaluation struct {
	Score      int
	Suggestion string
}

// SubmitResult 提交结果，给 controller 回包 + 拼通知用
type SubmitResult struct {
	GroupID       string
	LineCount     int
	TotalQuantity int
}

// SubmitCart 把该用户该类型的购物车一次性转成一个日志组，同事务清车。
// 任一步失败整体回滚，不留半截组。
func (r *Repo) SubmitCart(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if err := validateSubmit(&in); err != nil {
		return nil, err
	}

	var out SubmitResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user not found", ErrValidation)
			}
			return err
		}

		var entries []models.CartEntry
		if err := tx.
			Where("user_id = ? AND requisition_type = ?", in.UserID, in.RequisitionType).
			Order("created_at ASC").
			Find(&entries).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrValidation)
		}

		// 每行的物品都要还在役
		groupID := uuid.NewString()
		logs := make([]models.RequisitionLog, 0, len(entries))
		total := 0
		for _, e := range entries {
			var it models.Item
			if err := tx.First(&it, "id = ? AND status = 'active'", e.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: item %s no longer available", ErrValidation, e.ItemID)
				}
				return err
			}
			logs = append(logs, models.RequisitionLog{
				ID:              uuid.NewString(),
				GroupID:         groupID,
				ItemID:          e.ItemID,
				UserID:          in.UserID,
				RequisitionType: in.RequisitionType,
				Quantity:        e.Quantity,
				Status:          models.StatusPending,
				DeliveryMethod:  in.DeliveryMethod,
				DeliveryAddress: in.DeliveryAddress,
				ReasonCode:      in.ReasonCode,
				ReasonNote:      in.ReasonNote,
				DueDate:         in.DueDate,
			})
			total += e.Quantity
		}
		if err := tx.Create(&logs).Error; err != nil {
			return err
		}

		if in.Evaluation != nil {
			ev := &models.Evaluation{
				ID:         uuid.NewString(),
				UserID:     in.UserID,
				ActionType: in.RequisitionType,
				GroupID:    groupID,
				Score:      in.Evaluation.Score,
				Suggestion: in.Evaluation.Suggestion,
			}
			if err := tx.Create(ev).Error; err != nil {
				return err
			}
		}

		if err := clearCartTx(tx, in.UserID, in.RequisitionType); err != nil {
			return err
		}

		out = SubmitResult{GroupID: groupID, LineCount: len(logs), TotalQuantity: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func validateSubmit(in *SubmitInput) error {
	if in.RequisitionType != models.TypeRequisition && in.RequisitionType != models.TypeBorrow {
		return fmt.Errorf("%w: unknown requisition type %d", ErrValidation, in.RequisitionType)
	}
	switch in.DeliveryMethod {
	case models.DeliveryPickup:
	case models.DeliverySend:
		if strings.TrimSpace(in.DeliveryAddress) == "" {
			return fmt.Errorf("%w: delivery address required for send", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown delivery method %q", ErrValidation, in.DeliveryMethod)
	}
	if strings.TrimSpace(in.ReasonCode) == "" {
		return fmt.Errorf("%w: usage reason required", ErrValidation)
	}
	if in.ReasonCode == ReasonOther && strings.TrimSpace(in.ReasonNote) == "" {
		return fmt.Errorf("%w: reason note required when reason is other", ErrValidation)
	}
	if in.RequisitionType == models.TypeBorrow {
		if in.DueDate == nil {
			return fmt.Errorf("%w: due date required for borrow", ErrValidation)
		}
		// 当天零点起算，今天归还也允许
		today := time.Now().Truncate(24 * time.Hour)
		if in.DueDate.Before(today) {
			return fmt.Errorf("%w: due date must not be in the past", ErrValidation)
		}
	} else if in.DueDate != nil {
		return fmt.Errorf("%w: due date only applies to borrow", ErrValidation)
	}
	if in.Evaluation != nil {
		if in.Evaluation.Score < 1 || in.Evaluation.Score > 5 {
			return fmt.Errorf("%w: evaluation score must be 1-5", ErrValidation)
		}
	}
	return nil
}
