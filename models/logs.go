// models/logs.go
package models

import "time"

const LogTable = "mds_requisition_logs"

// 审批状态机：pending → approved | not_approved；借用件再有 approved → returned
const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusNotApproved = "not_approved"
	StatusReturned    = "returned"
)

// 配送方式
const (
	DeliveryPickup  = "pickup"
	DeliverySend    = "send"
)

// RequisitionLog 提交后的持久申请行，同一次提交共享 group_id
type RequisitionLog struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID         string `gorm:"type:uuid;index;not null" json:"groupId"`
	ItemID          string `gorm:"type:uuid;index;not null" json:"itemId"`
	UserID          string `gorm:"type:uuid;index;not null" json:"userId"`
	RequisitionType int    `gorm:"not null" json:"requisitionType"`

	Quantity         int     `gorm:"not null" json:"quantity"` // 申请数量
	ApprovedQuantity *int    `json:"approvedQuantity,omitempty"`
	StockAfter       *int    `json:"stockAfter,omitempty"` // 审批后的库存快照
	Status           string  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ApprovedBy       *string `gorm:"type:uuid" json:"approvedBy,omitempty"`

	DeliveryMethod  string `gorm:"size:20;not null" json:"deliveryMethod"`
	DeliveryAddress string `gorm:"size:255" json:"deliveryAddress,omitempty"`
	ReasonCode      string `gorm:"size:40;not null" json:"reasonCode"`
	ReasonNote      string `gorm:"size:255" json:"reasonNote,omitempty"`

	// 借用件专用
	DueDate          *time.Time `gorm:"index" json:"dueDate,omitempty"`
	ReturnedAt       *time.Time `gorm:"index" json:"returnedAt,omitempty"`
	ReturnedQuantity *int       `json:"returnedQuantity,omitempty"`
	ReturnedTo       *string    `gorm:"type:uuid" json:"returnedTo,omitempty"` // 收回经手人

	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (RequisitionLog) TableName() string { return LogTable }
