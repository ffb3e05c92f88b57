package model

import "time"

// 1顧客につきカートは1つ
// VendorIDは明細が空→非空になった時に入れ、空になったら消す。
// Revisionは更新ごとに+1（条件付き更新に使う）。
type Cart struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64      `gorm:"not null;uniqueIndex" json:"customerId"`
	VendorID   *int64     `gorm:"index" json:"vendorId"`
	Revision   int64      `gorm:"not null;default:0" json:"revision"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 明細の中から該当メニューを探す
func (c *Cart) FindItem(menuItemID int64) (int, bool) {
	for i, it := range c.Items {
		if it.MenuItemID == menuItemID {
			return i, true
		}
	}
	return -1, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
