package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type VendorGormRepository struct {
	db *gorm.DB
}

// DI
func NewVendorGormRepository(db *gorm.DB) *VendorGormRepository {
	return &VendorGormRepository{db: db}
}

func (r *VendorGormRepository) Create(ctx context.Context, v *model.Vendor) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *VendorGormRepository) FindByID(ctx context.Context, id int64) (model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Vendor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Vendor{}, err
	}
	return v, nil
}

func (r *VendorGormRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Vendor, error) {
	out := make(map[int64]model.Vendor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []model.Vendor
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, v := range rows {
		out[v.ID] = v
	}
	return out, nil
}

func (r *VendorGormRepository) FindByEmail(ctx context.Context, email string) (model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Vendor{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Vendor{}, err
	}
	return v, nil
}

func (r *VendorGormRepository) ExistsByEmailOrShopName(ctx context.Context, email string, shopName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Vendor{}).
		Where("email = ? OR shop_name = ?", email, shopName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *VendorGormRepository) ShopNameTaken(ctx context.Context, shopName string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Vendor{}).
		Where("shop_name = ? AND id <> ?", shopName, exceptID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *VendorGormRepository) List(ctx context.Context) ([]model.Vendor, error) {
	var rows []model.Vendor
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Find(&rows).Error; err != nil {
		return []model.Vendor{}, err
	}
	return rows, nil
}

func (r *VendorGormRepository) UpdateProfile(ctx context.Context, v model.Vendor) error {
	res := r.db.WithContext(ctx).
		Model(&model.Vendor{ID: v.ID}).
		Select("name", "shop_name", "phone", "address", "logo", "delivery_price").
		Updates(&v)

	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return repo.ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *VendorGormRepository) UpdateDeliveryPrice(ctx context.Context, id int64, price int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Vendor{}).
		Where("id = ?", id).
		Update("delivery_price", price)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
