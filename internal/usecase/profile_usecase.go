package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// 顧客・店舗のプロフィール
type ProfileUsecase struct {
	customers repo.CustomerRepository
	vendors   repo.VendorRepository
}

// DI
func NewProfileUsecase(customers repo.CustomerRepository, vendors repo.VendorRepository) *ProfileUsecase {
	return &ProfileUsecase{customers: customers, vendors: vendors}
}

// 空文字・nilは変更しない
type UpdateCustomerProfileInput struct {
	Name    *string
	Phone   *string
	Address *string
}

type UpdateVendorProfileInput struct {
	Name          *string
	ShopName      *string
	Phone         *string
	Address       *string
	Logo          *string
	DeliveryPrice *int64
}

func (u *ProfileUsecase) GetCustomer(ctx context.Context, customerID int64) (model.Customer, error) {
	c, err := u.customers.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "Customer not found")
	}
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

// 注文済みの配送先には影響しない（注文側にコピー済み）
func (u *ProfileUsecase) UpdateCustomer(ctx context.Context, customerID int64, in UpdateCustomerProfileInput) (model.Customer, error) {
	c, err := u.GetCustomer(ctx, customerID)
	if err != nil {
		return model.Customer{}, err
	}

	setIfPresent(&c.Name, in.Name)
	setIfPresent(&c.Phone, in.Phone)
	setIfPresent(&c.Address, in.Address)

	if err := u.customers.UpdateProfile(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Customer{}, NewHTTPError(http.StatusNotFound, "Customer not found")
		}
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *ProfileUsecase) GetVendor(ctx context.Context, vendorID int64) (model.Vendor, error) {
	v, err := u.vendors.FindByID(ctx, vendorID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Vendor{}, NewHTTPError(http.StatusNotFound, "Vendor not found")
	}
	if err != nil {
		return model.Vendor{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return v, nil
}

func (u *ProfileUsecase) UpdateVendor(ctx context.Context, vendorID int64, in UpdateVendorProfileInput) (model.Vendor, error) {
	v, err := u.GetVendor(ctx, vendorID)
	if err != nil {
		return model.Vendor{}, err
	}

	//店舗名の重複チェック（自分以外）
	if in.ShopName != nil {
		if name := strings.TrimSpace(*in.ShopName); name != "" {
			taken, err := u.vendors.ShopNameTaken(ctx, name, vendorID)
			if err != nil {
				return model.Vendor{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if taken {
				return model.Vendor{}, NewHTTPError(http.StatusBadRequest, "Shop name already taken")
			}
			v.ShopName = name
		}
	}
	if in.DeliveryPrice != nil {
		if *in.DeliveryPrice < 0 {
			return model.Vendor{}, NewHTTPError(http.StatusBadRequest, "Delivery price must be >= 0")
		}
		v.DeliveryPrice = *in.DeliveryPrice
	}
	setIfPresent(&v.Name, in.Name)
	setIfPresent(&v.Phone, in.Phone)
	setIfPresent(&v.Address, in.Address)
	if in.Logo != nil {
		v.Logo = strings.TrimSpace(*in.Logo)
	}

	if err := u.vendors.UpdateProfile(ctx, v); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return model.Vendor{}, NewHTTPError(http.StatusBadRequest, "Shop name already taken")
		case errors.Is(err, repo.ErrNotFound):
			return model.Vendor{}, NewHTTPError(http.StatusNotFound, "Vendor not found")
		}
		return model.Vendor{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return v, nil
}

// 配送料（次の注文から反映、既存の注文は変わらない）
func (u *ProfileUsecase) UpdateDeliveryPrice(ctx context.Context, vendorID int64, price *int64) (int64, error) {
	if price == nil {
		return 0, NewHTTPError(http.StatusBadRequest, "Delivery price is required")
	}
	if *price < 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "Delivery price must be >= 0")
	}

	err := u.vendors.UpdateDeliveryPrice(ctx, vendorID, *price)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, NewHTTPError(http.StatusNotFound, "Vendor not found")
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return *price, nil
}

func setIfPresent(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}
