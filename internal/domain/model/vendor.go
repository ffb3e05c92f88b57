package model

import "time"

// 店舗（メニューを出す側）
type Vendor struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email,omitempty"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	ShopName     string `gorm:"type:varchar(255);not null;uniqueIndex" json:"shopName"`
	Phone        string `gorm:"type:varchar(30)" json:"phone"`
	Address      string `gorm:"type:text" json:"address"`

	//配送料（未設定は0）
	DeliveryPrice int64     `gorm:"not null;default:0" json:"deliveryPrice"`
	Logo          string    `gorm:"type:text" json:"logo"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 注文一覧などに載せる店舗の要約
type VendorSummary struct {
	ID            int64  `json:"id"`
	ShopName      string `json:"shopName"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Logo          string `json:"logo"`
	DeliveryPrice int64  `json:"deliveryPrice"`
}

func (v Vendor) Summary() VendorSummary {
	return VendorSummary{
		ID:            v.ID,
		ShopName:      v.ShopName,
		Address:       v.Address,
		Phone:         v.Phone,
		Logo:          v.Logo,
		DeliveryPrice: v.DeliveryPrice,
	}
}
