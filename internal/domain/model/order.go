package model

import "time"

// 支払い方法は代引きのみ
type PaymentMethod string

const PaymentMethodCOD PaymentMethod = "COD"

// 注文
// 作成後に変わるのはStatusだけ。
type Order struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64 `gorm:"not null;index" json:"customerId"`

	//注文時点の顧客情報（プロフィール変更の影響を受けない）
	CustomerName    string `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerPhone   string `gorm:"type:varchar(30);not null" json:"customerPhone"`
	DeliveryAddress string `gorm:"type:text;not null" json:"deliveryAddress"`

	VendorID int64       `gorm:"not null;index" json:"vendorId"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	Subtotal      int64         `gorm:"not null" json:"subtotal"`
	DeliveryPrice int64         `gorm:"not null" json:"deliveryPrice"`
	Total         int64         `gorm:"not null" json:"totalAmount"`
	Status        OrderStatus   `gorm:"type:varchar(32);not null;index" json:"orderStatus"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(16);not null" json:"paymentMethod"`
	CreatedAt     time.Time     `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updatedAt"`
}
