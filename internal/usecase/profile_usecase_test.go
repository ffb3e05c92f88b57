package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUsecase_Customer(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	c := e.seedCustomer(t, "Alice")

	got, err := e.profile.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, got.Email)

	//空文字は変更しない
	updated, err := e.profile.UpdateCustomer(ctx, c.ID, usecase.UpdateCustomerProfileInput{
		Name:  strPtr(" "),
		Phone: strPtr("080-1111-2222"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "080-1111-2222", updated.Phone)
	assert.Equal(t, c.Address, updated.Address)

	_, err = e.profile.GetCustomer(ctx, 9999)
	assertHTTPError(t, err, http.StatusNotFound, "Customer not found")
}

func TestProfileUsecase_Vendor(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	v := e.seedVendor(t, "Curry House", 20)
	e.seedVendor(t, "Sushi Bar", 30)

	_, err := e.profile.UpdateVendor(ctx, v.ID, usecase.UpdateVendorProfileInput{ShopName: strPtr("Sushi Bar")})
	assertHTTPError(t, err, http.StatusBadRequest, "Shop name already taken")

	_, err = e.profile.UpdateVendor(ctx, v.ID, usecase.UpdateVendorProfileInput{DeliveryPrice: int64Ptr(-1)})
	assertHTTPError(t, err, http.StatusBadRequest, "Delivery price must be >= 0")

	//自分の店舗名のままは可
	updated, err := e.profile.UpdateVendor(ctx, v.ID, usecase.UpdateVendorProfileInput{
		ShopName:      strPtr("Curry House"),
		Logo:          strPtr("https://img.example.com/logo.png"),
		DeliveryPrice: int64Ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Curry House", updated.ShopName)
	assert.Equal(t, int64(0), updated.DeliveryPrice)

	stored, err := e.profile.GetVendor(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.DeliveryPrice)
	assert.Equal(t, "https://img.example.com/logo.png", stored.Logo)
}

func TestProfileUsecase_UpdateDeliveryPrice(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	v := e.seedVendor(t, "Curry House", 20)

	_, err := e.profile.UpdateDeliveryPrice(ctx, v.ID, nil)
	assertHTTPError(t, err, http.StatusBadRequest, "Delivery price is required")

	_, err = e.profile.UpdateDeliveryPrice(ctx, v.ID, int64Ptr(-10))
	assertHTTPError(t, err, http.StatusBadRequest, "Delivery price must be >= 0")

	_, err = e.profile.UpdateDeliveryPrice(ctx, 9999, int64Ptr(10))
	assertHTTPError(t, err, http.StatusNotFound, "Vendor not found")

	price, err := e.profile.UpdateDeliveryPrice(ctx, v.ID, int64Ptr(35))
	require.NoError(t, err)
	assert.Equal(t, int64(35), price)

	//次の注文から反映
	c := e.seedCustomer(t, "Alice")
	curry := e.seedItem(t, v.ID, "curry", 50)
	o := e.placeOrder(t, c.ID, line(curry.ID, 1))
	assert.Equal(t, int64(85), o.Total)
}
