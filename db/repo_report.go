// db/repo_report.go
package db

import (
	"Gin_postgres_redis_media_stock/models"
	"context"
	"sort"
	"time"
)

// LogRow 日志行拼上用户和物品信息的展示视图
type LogRow struct {
	ID               string     `json:"id"`
	GroupID          string     `json:"groupId"`
	UserID           string     `json:"userId"`
	Username         string     `json:"username"`
	DisplayName      string     `json:"displayName"`
	ItemID           string     `json:"itemId"`
	ItemName         string     `json:"itemName"`
	Unit             string     `json:"unit"`
	RequisitionType  int        `json:"requisitionType"`
	Quantity         int        `json:"quantity"`
	ApprovedQuantity *int       `json:"approvedQuantity,omitempty"`
	StockAfter       *int       `json:"stockAfter,omitempty"`
	Status           string     `json:"status"`
	DeliveryMethod   string     `json:"deliveryMethod"`
	DeliveryAddress  string     `json:"deliveryAddress,omitempty"`
	ReasonCode       string     `json:"reasonCode"`
	ReasonNote       string     `json:"reasonNote,omitempty"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	ReturnedAt       *time.Time `json:"returnedAt,omitempty"`
	ReturnedQuantity *int       `json:"returnedQuantity,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type GroupQuery struct {
	UserID          string // 非空时只看该用户
	GroupID         string // 非空时只取该组
	RequisitionType int    // 0=全部
	Status          string // ""=全部
	Page            int
	Size            int
}

// ItemTotal 组内同名物品合并后的小计
type ItemTotal struct {
	ItemName     string `json:"itemName"`
	Unit         string `json:"unit"`
	RequestedSum int    `json:"requestedSum"`
	ApprovedSum  int    `json:"approvedSum"`
}

// GroupSummary 一次提交（一个 group_id）聚合成一行
type GroupSummary struct {
	GroupID         string      `json:"groupId"`
	UserID          string      `json:"userId"`
	Username        string      `json:"username"`
	DisplayName     string      `json:"displayName"`
	RequisitionType int         `json:"requisitionType"`
	SubmittedAt     time.Time   `json:"submittedAt"` // 组内最早一行
	Status          string      `json:"status"`      // 读取时组内各行一致，取首行
	DeliveryMethod  string      `json:"deliveryMethod"`
	ReasonCode      string      `json:"reasonCode"`
	DueDate         *time.Time  `json:"dueDate,omitempty"`
	LineCount       int         `json:"lineCount"`
	Items           []ItemTotal `json:"items"`
}

type PagedGroups struct {
	TotalGroups int            `json:"totalGroups"`
	Groups      []GroupSummary `json:"groups"`
}

func (r *Repo) fetchLogRows(ctx context.Context, q GroupQuery) ([]LogRow, error) {
	tx := r.DB.WithContext(ctx).
		Table(models.LogTable + " l").
		Select(`
			l.id, l.group_id, l.user_id, l.item_id, l.requisition_type,
			l.quantity, l.approved_quantity, l.stock_after, l.status,
			l.delivery_method, l.delivery_address, l.reason_code, l.reason_note,
			l.due_date, l.returned_at, l.returned_quantity, l.created_at,
			u.username, u.display_name,
			i.name AS item_name, i.unit
		`).
		Joins("LEFT JOIN mds_users u ON u.id = l.user_id").
		Joins("LEFT JOIN " + models.ItemTable + " i ON i.id = l.item_id")

	if q.UserID != "" {
		tx = tx.Where("l.user_id = ?", q.UserID)
	}
	if q.GroupID != "" {
		tx = tx.Where("l.group_id = ?", q.GroupID)
	}
	if q.RequisitionType != 0 {
		tx = tx.Where("l.requisition_type = ?", q.RequisitionType)
	}
	if q.Status != "" {
		tx = tx.Where("l.status = ?", q.Status)
	}

	var rows []LogRow
	if err := tx.Order("l.created_at ASC, l.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListLogGroups 分页的单位是组不是行：先聚合再切页
func (r *Repo) ListLogGroups(ctx context.Context, q GroupQuery) (*PagedGroups, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}

	rows, err := r.fetchLogRows(ctx, q)
	if err != nil {
		return nil, err
	}

	groups := GroupByTransaction(rows)
	total := len(groups)

	start := (q.Page - 1) * q.Size
	if start > total {
		start = total
	}
	end := start + q.Size
	if end > total {
		end = total
	}
	return &PagedGroups{TotalGroups: total, Groups: groups[start:end]}, nil
}

// GetGroupRows 单组明细（审批页用），行按提交顺序
func (r *Repo) GetGroupRows(ctx context.Context, groupID string) ([]LogRow, error) {
	rows, err := r.fetchLogRows(ctx, GroupQuery{GroupID: groupID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}

// GroupByTransaction 把日志行按 group_id 聚合成摘要。
// 排序键是显式的 (最早提交时间倒序, group_id 升序)，同一输入永远产出同一结果，
// 分页才可复现；不依赖 map 遍历顺序。
func GroupByTransaction(rows []LogRow) []GroupSummary {
	byGroup := make(map[string]*GroupSummary)
	itemIdx := make(map[string]map[string]int) // groupID -> itemName -> index in Items

	for _, row := range rows {
		g, ok := byGroup[row.GroupID]
		if !ok {
			g = &GroupSummary{
				GroupID:         row.GroupID,
				UserID:          row.UserID,
				Username:        row.Username,
				DisplayName:     row.DisplayName,
				RequisitionType: row.RequisitionType,
				SubmittedAt:     row.CreatedAt,
				Status:          row.Status,
				DeliveryMethod:  row.DeliveryMethod,
				ReasonCode:      row.ReasonCode,
				DueDate:         row.DueDate,
			}
			byGroup[row.GroupID] = g
			itemIdx[row.GroupID] = make(map[string]int)
		}
		if row.CreatedAt.Before(g.SubmittedAt) {
			g.SubmittedAt = row.CreatedAt
		}
		g.LineCount++

		approved := 0
		if row.ApprovedQuantity != nil {
			approved = *row.ApprovedQuantity
		}
		idx, seen := itemIdx[row.GroupID][row.ItemName]
		if seen {
			g.Items[idx].RequestedSum += row.Quantity
			g.Items[idx].ApprovedSum += approved
		} else {
			itemIdx[row.GroupID][row.ItemName] = len(g.Items)
			g.Items = append(g.Items, ItemTotal{
				ItemName:     row.ItemName,
				Unit:         row.Unit,
				RequestedSum: row.Quantity,
				ApprovedSum:  approved,
			})
		}
	}

	out := make([]GroupSummary, 0, len(byGroup))
	for _, g := range byGroup {
		sort.Slice(g.Items, func(i, j int) bool {
			return g.Items[i].ItemName < g.Items[j].ItemName
		})
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out
}
