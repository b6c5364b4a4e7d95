// models/cart.go
package models

import "time"

const CartTable = "mds_cart_entries"

// 单条购物车最多 100 件，重复加入做合并
const MaxCartQuantity = 100

// CartEntry 用户提交前的暂存行，(user, item, type) 唯一
type CartEntry struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_item_type,priority:1" json:"userId"`
	ItemID          string `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_item_type,priority:2" json:"itemId"`
	RequisitionType int    `gorm:"not null;uniqueIndex:idx_cart_user_item_type,priority:3" json:"requisitionType"`
	Quantity        int    `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CartEntry) TableName() string { return CartTable }
