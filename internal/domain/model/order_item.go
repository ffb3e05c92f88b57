package model

// 注文明細（注文時点のスナップショット）
type OrderItem struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID    int64  `gorm:"not null;index" json:"-"`
	MenuItemID int64  `gorm:"not null;index" json:"menuItemId"`
	ItemName   string `gorm:"type:varchar(255);not null" json:"itemName"`
	Price      int64  `gorm:"not null" json:"price"`
	Quantity   int64  `gorm:"not null" json:"quantity"`
}
