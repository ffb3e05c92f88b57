package repository

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 明細は追加順
func preloadCartItems(db *gorm.DB) *gorm.DB {
	return db.Order("cart_items.id asc")
}

// 顧客のカートを明細つきで取得
func (r *CartGormRepository) FindByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Preload("Items", preloadCartItems).
		Where("customer_id = ?", customerID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return cart, nil
}

// 顧客のカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	cart, err := r.FindByCustomerID(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, err
	}

	//同時に作られても1件だけになるようにcustomer_idの衝突は無視する
	now := time.Now().UTC()
	newCart := model.Cart{
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoNothing: true,
		}).
		Create(&newCart).Error; err != nil {
		return model.Cart{}, err
	}

	return r.FindByCustomerID(ctx, customerID)
}

// 明細を丸ごと書き戻す（revisionが一致した時だけ）
func (r *CartGormRepository) Save(ctx context.Context, cart model.Cart) (model.Cart, error) {
	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Cart{}).
			Where("id = ? AND revision = ?", cart.ID, cart.Revision).
			Updates(map[string]interface{}{
				"vendor_id":  cart.VendorID,
				"revision":   gorm.Expr("revision + 1"),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrConflict
		}

		//cart_itemsを入れ替え
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}

		items := make([]model.CartItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			items = append(items, model.CartItem{
				CartID:     cart.ID,
				MenuItemID: it.MenuItemID,
				Quantity:   it.Quantity,
			})
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return model.Cart{}, err
	}

	return r.findByID(ctx, cart.ID)
}

func (r *CartGormRepository) findByID(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Preload("Items", preloadCartItems).
		First(&cart, cartID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return cart, nil
}
