package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// 店舗のメニュー管理
type MenuUsecase struct {
	items repo.MenuItemRepository
}

// DI
func NewMenuUsecase(items repo.MenuItemRepository) *MenuUsecase {
	return &MenuUsecase{items: items}
}

type CreateMenuItemInput struct {
	Name        string
	Description string
	Price       *int64
	Category    string
	Available   *bool
	Image       string
}

// nilの項目は変更しない
type UpdateMenuItemInput struct {
	Name        *string
	Description *string
	Price       *int64
	Category    *string
	Available   *bool
	Image       *string
}

func (u *MenuUsecase) Create(ctx context.Context, vendorID int64, in CreateMenuItemInput) (model.MenuItem, error) {
	if vendorID <= 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	category := normalizeCategory(in.Category)
	image := strings.TrimSpace(in.Image)
	if name == "" || desc == "" || in.Price == nil || category == "" || image == "" {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "All fields (itemName, description, price, category, image) are required")
	}
	if *in.Price < 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}

	item := &model.MenuItem{
		VendorID:    vendorID,
		Name:        name,
		Description: desc,
		Price:       *in.Price,
		Category:    category,
		Available:   available,
		Image:       image,
	}
	if err := u.items.Create(ctx, item); err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return *item, nil
}

func (u *MenuUsecase) List(ctx context.Context, vendorID int64) ([]model.MenuItem, error) {
	if vendorID <= 0 {
		return []model.MenuItem{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := u.items.ListByVendorID(ctx, vendorID, false)
	if err != nil {
		return []model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *MenuUsecase) Update(ctx context.Context, vendorID int64, itemID int64, in UpdateMenuItemInput) (model.MenuItem, error) {
	if vendorID <= 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.items.FindByID(ctx, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.MenuItem{}, NewHTTPError(http.StatusNotFound, "Menu item not found")
	}
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//所有チェック
	if item.VendorID != vendorID {
		return model.MenuItem{}, NewHTTPError(http.StatusNotFound, "Menu item not found")
	}

	if in.Name != nil {
		if v := strings.TrimSpace(*in.Name); v != "" {
			item.Name = v
		}
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
		item.Price = *in.Price
	}
	if in.Category != nil {
		if v := normalizeCategory(*in.Category); v != "" {
			item.Category = v
		}
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
	if in.Image != nil {
		item.Image = strings.TrimSpace(*in.Image)
	}

	if err := u.items.Update(ctx, item); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.MenuItem{}, NewHTTPError(http.StatusNotFound, "Menu item not found")
		}
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return item, nil
}

// 削除してもカート・注文は壊れない（カートは表示時にnull、注文はスナップショット）
func (u *MenuUsecase) Delete(ctx context.Context, vendorID int64, itemID int64) error {
	if vendorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.items.DeleteOwned(ctx, vendorID, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Menu item not found or unauthorized")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
