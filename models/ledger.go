// models/ledger.go
package models

import "time"

const LedgerTable = "mds_stock_ledger"

// 变动类型由 delta 符号推导：正数 increase，负数 reduce
const (
	LedgerIncrease = "increase"
	LedgerReduce   = "reduce"
)

// StockLedger 库存变动流水，只追加，不更新不删除
type StockLedger struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID string `gorm:"type:uuid;index;not null" json:"itemId"`

	Delta          int    `gorm:"not null" json:"delta"` // 带符号
	QuantityBefore int    `gorm:"not null" json:"quantityBefore"`
	QuantityAfter  int    `gorm:"not null" json:"quantityAfter"`
	UpdateType     string `gorm:"size:20;not null" json:"updateType"`
	Remark         string `gorm:"size:255" json:"remark,omitempty"`
	ActorID        string `gorm:"type:uuid" json:"actorId"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (StockLedger) TableName() string { return LedgerTable }
