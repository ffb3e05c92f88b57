package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// 店舗の保存・取得を約束
type VendorRepository interface {
	Create(ctx context.Context, v *model.Vendor) error
	FindByID(ctx context.Context, id int64) (model.Vendor, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Vendor, error)
	FindByEmail(ctx context.Context, email string) (model.Vendor, error)
	//emailか店舗名が使われているか
	ExistsByEmailOrShopName(ctx context.Context, email string, shopName string) (bool, error)
	//exceptID以外の店舗が使っているか
	ShopNameTaken(ctx context.Context, shopName string, exceptID int64) (bool, error)
	//新しい順
	List(ctx context.Context) ([]model.Vendor, error)
	UpdateProfile(ctx context.Context, v model.Vendor) error
	UpdateDeliveryPrice(ctx context.Context, id int64, price int64) error
}
