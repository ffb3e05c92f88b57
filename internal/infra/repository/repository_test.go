package repository_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain/model"
	"marketplace/internal/infra/db"
	gormrepo "marketplace/internal/infra/repository"
	repo "marketplace/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func TestCustomerRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	customers := gormrepo.NewCustomerGormRepository(openDB(t))

	c := &model.Customer{Name: "A", Email: "a@example.com", PasswordHash: "x", Phone: "1", Address: "x"}
	require.NoError(t, customers.Create(ctx, c))

	dup := &model.Customer{Name: "B", Email: "a@example.com", PasswordHash: "x", Phone: "2", Address: "y"}
	assert.ErrorIs(t, customers.Create(ctx, dup), repo.ErrDuplicate)

	_, err := customers.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestCartRepository_SaveChecksRevision(t *testing.T) {
	ctx := context.Background()
	carts := gormrepo.NewCartGormRepository(openDB(t))

	cart, err := carts.GetOrCreateByCustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cart.Revision)
	assert.Empty(t, cart.Items)

	//2回目は同じカート
	again, err := carts.GetOrCreateByCustomerID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	vendorID := int64(9)
	cart.VendorID = &vendorID
	cart.Items = []model.CartItem{{MenuItemID: 100, Quantity: 2}, {MenuItemID: 101, Quantity: 1}}
	saved, err := carts.Save(ctx, cart)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Revision)
	require.Len(t, saved.Items, 2)
	assert.Equal(t, int64(100), saved.Items[0].MenuItemID)
	require.NotNil(t, saved.VendorID)

	//古いrevisionでは書けない
	_, err = carts.Save(ctx, cart)
	assert.ErrorIs(t, err, repo.ErrConflict)

	saved.Items = []model.CartItem{}
	saved.VendorID = nil
	cleared, err := carts.Save(ctx, saved)
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
	assert.Nil(t, cleared.VendorID)
	assert.Equal(t, int64(2), cleared.Revision)
}

func TestOrderRepository_UpdateStatusGuard(t *testing.T) {
	ctx := context.Background()
	orders := gormrepo.NewOrderGormRepository(openDB(t))

	o := &model.Order{
		CustomerID:      1,
		CustomerName:    "A",
		CustomerPhone:   "1",
		DeliveryAddress: "x",
		VendorID:        2,
		Items:           []model.OrderItem{{MenuItemID: 5, ItemName: "curry", Price: 50, Quantity: 2}},
		Subtotal:        100,
		DeliveryPrice:   20,
		Total:           120,
		Status:          model.OrderStatusPending,
		PaymentMethod:   model.PaymentMethodCOD,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, orders.Create(ctx, o))
	require.NotZero(t, o.ID)

	got, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "curry", got.Items[0].ItemName)

	//別店舗・読んだ時と違うステータスでは更新しない
	assert.ErrorIs(t, orders.UpdateStatus(ctx, o.ID, 3, model.OrderStatusPending, model.OrderStatusPreparing), repo.ErrConflict)
	require.NoError(t, orders.UpdateStatus(ctx, o.ID, 2, model.OrderStatusPending, model.OrderStatusPreparing))
	assert.ErrorIs(t, orders.UpdateStatus(ctx, o.ID, 2, model.OrderStatusPending, model.OrderStatusPreparing), repo.ErrConflict)

	got, err = orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPreparing, got.Status)

	_, err = orders.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderRepository_StatsByVendor(t *testing.T) {
	ctx := context.Background()
	orders := gormrepo.NewOrderGormRepository(openDB(t))
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	create := func(customerID, vendorID, total int64, at time.Time) {
		require.NoError(t, orders.Create(ctx, &model.Order{
			CustomerID: customerID, CustomerName: "c", CustomerPhone: "p", DeliveryAddress: "a",
			VendorID: vendorID, Subtotal: total, Total: total,
			Status: model.OrderStatusPending, PaymentMethod: model.PaymentMethodCOD,
			CreatedAt: at, UpdatedAt: at,
		}))
	}
	create(1, 1, 100, now.Add(-40*24*time.Hour))
	create(1, 1, 200, now.Add(-time.Hour))
	create(2, 1, 300, now.Add(-2*time.Hour))
	create(3, 2, 999, now.Add(-time.Hour))

	all, err := orders.StatsByVendor(ctx, 1, repo.StatsRange{})
	require.NoError(t, err)
	assert.Equal(t, repo.OrderStats{Count: 3, Revenue: 600, Customers: 2}, all)

	from := now.Add(-30 * 24 * time.Hour)
	recent, err := orders.StatsByVendor(ctx, 1, repo.StatsRange{From: &from})
	require.NoError(t, err)
	assert.Equal(t, repo.OrderStats{Count: 2, Revenue: 500, Customers: 2}, recent)

	older, err := orders.StatsByVendor(ctx, 1, repo.StatsRange{To: &from})
	require.NoError(t, err)
	assert.Equal(t, repo.OrderStats{Count: 1, Revenue: 100, Customers: 1}, older)

	none, err := orders.StatsByVendor(ctx, 42, repo.StatsRange{})
	require.NoError(t, err)
	assert.Equal(t, repo.OrderStats{}, none)

	latest, err := orders.ListByVendorID(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, int64(200), latest[0].Total)
}

func TestAuditLogRepository_ListOrderStatusChanges(t *testing.T) {
	ctx := context.Background()
	logs := gormrepo.NewAuditLogGormRepository(openDB(t))

	write := func(vendorID, orderID int64, minute int) {
		require.NoError(t, logs.Create(ctx, model.AuditLog{
			ActorVendorID: vendorID,
			Action:        model.AuditActionUpdateOrderStatus,
			ResourceType:  model.AuditResourceOrder,
			ResourceID:    orderID,
			BeforeJSON:    `{}`,
			AfterJSON:     `{}`,
			CreatedAt:     time.Date(2024, 6, 1, 0, minute, 0, 0, time.UTC),
		}))
	}
	write(1, 10, 0)
	write(1, 11, 1)
	write(2, 10, 2)
	write(1, 10, 3)

	got, err := logs.ListOrderStatusChanges(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].CreatedAt.Before(got[1].CreatedAt))

	//1注文の遷移数を超えては返さない
	for i := 0; i < 5; i++ {
		write(3, 20, 10+i)
	}
	got, err = logs.ListOrderStatusChanges(ctx, 3, 20)
	require.NoError(t, err)
	assert.Len(t, got, model.MaxStatusTransitions)
}
