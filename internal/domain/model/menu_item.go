package model

import "time"

// 店舗のメニュー
// カートは参照だけ持ち、価格と名前は注文時にOrderItemへコピーする。
type MenuItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID    int64     `gorm:"not null;index" json:"vendorId"`
	Name        string    `gorm:"type:varchar(255);not null" json:"itemName"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"not null" json:"price"`
	Category    string    `gorm:"type:varchar(100);not null;index" json:"category"`
	Available   bool      `gorm:"not null" json:"available"`
	Image       string    `gorm:"type:text" json:"image"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
