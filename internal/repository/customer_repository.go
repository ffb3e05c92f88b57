package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// 顧客の保存・取得を約束
type CustomerRepository interface {
	//新規作成（email重複はErrDuplicate）
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Customer, error)
	FindByEmail(ctx context.Context, email string) (model.Customer, error)
	//名前・電話・住所の更新
	UpdateProfile(ctx context.Context, c model.Customer) error
}
