package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type CartRepository interface {
	//明細つきで取得（無ければErrNotFound）
	FindByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	//無ければ空のカートを作る
	GetOrCreateByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	//明細とvendor_idを書き戻す。
	//cart.Revisionが保存済みの値と違えばErrConflict。返り値は新しいrevision入り。
	Save(ctx context.Context, cart model.Cart) (model.Cart, error)
}
