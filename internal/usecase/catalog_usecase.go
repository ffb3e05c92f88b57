package usecase

import (
	"context"
	"errors"
	"net/http"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// 顧客向けの店舗一覧・メニュー（ログイン不要）
type CatalogUsecase struct {
	vendors repo.VendorRepository
	items   repo.MenuItemRepository
}

// DI
func NewCatalogUsecase(vendors repo.VendorRepository, items repo.MenuItemRepository) *CatalogUsecase {
	return &CatalogUsecase{vendors: vendors, items: items}
}

type VendorMenuOutput struct {
	Vendor model.VendorSummary
	Items  []model.MenuItem
}

// 新しい順。emailは返さない
func (u *CatalogUsecase) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	vendors, err := u.vendors.List(ctx)
	if err != nil {
		return []model.Vendor{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for i := range vendors {
		vendors[i].Email = ""
	}
	return vendors, nil
}

// onlyAvailable=trueなら販売中のメニューだけ
func (u *CatalogUsecase) VendorMenu(ctx context.Context, vendorID int64, onlyAvailable bool) (VendorMenuOutput, error) {
	if vendorID <= 0 {
		return VendorMenuOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	v, err := u.vendors.FindByID(ctx, vendorID)
	if errors.Is(err, repo.ErrNotFound) {
		return VendorMenuOutput{}, NewHTTPError(http.StatusNotFound, "Vendor not found")
	}
	if err != nil {
		return VendorMenuOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.items.ListByVendorID(ctx, vendorID, onlyAvailable)
	if err != nil {
		return VendorMenuOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return VendorMenuOutput{Vendor: v.Summary(), Items: items}, nil
}
