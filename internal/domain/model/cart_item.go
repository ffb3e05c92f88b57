package model

// カートの明細
// 価格は持たない（表示時にメニューから引き直す）。
type CartItem struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"-"`
	CartID     int64 `gorm:"not null;index;uniqueIndex:idx_cart_item_menu" json:"-"`
	MenuItemID int64 `gorm:"not null;uniqueIndex:idx_cart_item_menu" json:"itemId"`
	Quantity   int64 `gorm:"not null" json:"quantity"`
}

// 1明細の数量の上限
const MaxCartLineQuantity int64 = 1000

// 数量が1〜上限に収まっているか
func (ci CartItem) ValidQuantity() bool {
	return ci.Quantity >= 1 && ci.Quantity <= MaxCartLineQuantity
}
