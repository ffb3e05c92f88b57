package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// メニューの保存・取得を約束
type MenuItemRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, id int64) (model.MenuItem, error)
	//存在しないIDはmapに入らない
	FindByIDs(ctx context.Context, ids []int64) (map[int64]model.MenuItem, error)
	ListByVendorID(ctx context.Context, vendorID int64, onlyAvailable bool) ([]model.MenuItem, error)
	Update(ctx context.Context, item model.MenuItem) error
	//店舗自身のものだけ削除（無ければErrNotFound）
	DeleteOwned(ctx context.Context, vendorID int64, itemID int64) error
}
