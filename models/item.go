// models/item.go
package models

import "time"

const ItemTable = "mds_items"
const CategoryTable = "mds_item_categories"

// 物品类型：1=领用（耗材，领走不还）2=借用（用完要还）
const (
	TypeRequisition = 1
	TypeBorrow      = 2
)

// Category 物品分类（横幅/手册/展架...）
type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item 库存物品，领用与借用共用一张表，靠 item_type 区分
type Item struct {
	ID         string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string  `gorm:"size:200;not null" json:"name"`
	Unit       string  `gorm:"size:40;not null" json:"unit"` // 计量单位：piece/set/roll...
	ItemType   int     `gorm:"not null;index" json:"itemType"`
	CategoryID *string `gorm:"type:uuid;index" json:"categoryId,omitempty"`

	Quantity         int `gorm:"not null;default:0" json:"quantity"` // 当前可用库存，审批时扣减
	ReservedQuantity int `gorm:"not null;default:0" json:"reservedQuantity"`

	Image            string `gorm:"size:255" json:"image,omitempty"` // 仅存文件名，文件本身在外部存储
	BorrowRestricted bool   `gorm:"not null;default:false" json:"borrowRestricted"`
	Description      string `gorm:"size:500" json:"description,omitempty"`
	Status           string `gorm:"size:20;not null;default:'active'" json:"status"` // active/retired

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return CategoryTable }
func (Item) TableName() string     { return ItemTable }
