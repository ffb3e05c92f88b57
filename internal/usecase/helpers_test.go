package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"marketplace/internal/domain/model"
	"marketplace/internal/infra/db"
	"marketplace/internal/infra/events"
	"marketplace/internal/infra/lock"
	gormrepo "marketplace/internal/infra/repository"
	"marketplace/internal/logger"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// テスト用の固定時計
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFixedClock(t time.Time) *fixedClock {
	return &fixedClock{t: t}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// 送ったイベントを覚えておく
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Events() []events.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.OrderEvent, len(p.events))
	copy(out, p.events)
	return out
}

// sqlite(:memory:)の上に本物のrepoとusecaseを組む
type testEnv struct {
	customers repo.CustomerRepository
	vendors   repo.VendorRepository
	menuItems repo.MenuItemRepository
	carts     repo.CartRepository
	orders    repo.OrderRepository
	auditLogs repo.AuditLogRepository

	clock *fixedClock
	pub   *recordingPublisher

	cart        *usecase.CartUsecase
	order       *usecase.OrderUsecase
	vendorOrder *usecase.VendorOrderUsecase
	menu        *usecase.MenuUsecase
	profile     *usecase.ProfileUsecase
	catalog     *usecase.CatalogUsecase
	dashboard   *usecase.DashboardUsecase
}

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	e := &testEnv{
		customers: gormrepo.NewCustomerGormRepository(gdb),
		vendors:   gormrepo.NewVendorGormRepository(gdb),
		menuItems: gormrepo.NewMenuItemGormRepository(gdb),
		carts:     gormrepo.NewCartGormRepository(gdb),
		orders:    gormrepo.NewOrderGormRepository(gdb),
		auditLogs: gormrepo.NewAuditLogGormRepository(gdb),
		clock:     newFixedClock(baseTime),
		pub:       &recordingPublisher{},
	}
	tx := gormrepo.NewTxManagerGorm(gdb)
	log := logger.NewNop()

	e.cart = usecase.NewCartUsecase(e.carts, e.menuItems)
	e.order = usecase.NewOrderUsecase(tx, e.orders, e.vendors, lock.NewLocalLocker(time.Second), e.pub, e.clock, log)
	e.vendorOrder = usecase.NewVendorOrderUsecase(tx, e.orders, e.customers, e.auditLogs, e.pub, e.clock, log)
	e.menu = usecase.NewMenuUsecase(e.menuItems)
	e.profile = usecase.NewProfileUsecase(e.customers, e.vendors)
	e.catalog = usecase.NewCatalogUsecase(e.vendors, e.menuItems)
	e.dashboard = usecase.NewDashboardUsecase(e.orders, e.vendors, e.clock)
	return e
}

func (e *testEnv) seedCustomer(t *testing.T, name string) model.Customer {
	t.Helper()
	c := &model.Customer{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: "x",
		Phone:        "090-0000-0000",
		Address:      name + " street 1",
	}
	require.NoError(t, e.customers.Create(context.Background(), c))
	return *c
}

func (e *testEnv) seedVendor(t *testing.T, shop string, deliveryPrice int64) model.Vendor {
	t.Helper()
	v := &model.Vendor{
		Name:          shop + " owner",
		Email:         strings.ToLower(strings.ReplaceAll(shop, " ", "")) + "@shop.example.com",
		PasswordHash:  "x",
		ShopName:      shop,
		Phone:         "03-0000-0000",
		Address:       shop + " avenue",
		DeliveryPrice: deliveryPrice,
	}
	require.NoError(t, e.vendors.Create(context.Background(), v))
	return *v
}

func (e *testEnv) seedItem(t *testing.T, vendorID int64, name string, price int64) model.MenuItem {
	t.Helper()
	item := &model.MenuItem{
		VendorID:    vendorID,
		Name:        name,
		Description: name + " desc",
		Price:       price,
		Category:    "main",
		Available:   true,
		Image:       "https://img.example.com/" + name + ".png",
	}
	require.NoError(t, e.menuItems.Create(context.Background(), item))
	return *item
}

// カートに入れて注文まで進める
func (e *testEnv) placeOrder(t *testing.T, customerID int64, lines ...model.CartItem) model.Order {
	t.Helper()
	ctx := context.Background()
	for _, l := range lines {
		_, err := e.cart.AddItem(ctx, customerID, usecase.AddCartItemInput{ItemID: l.MenuItemID, Quantity: l.Quantity})
		require.NoError(t, err)
	}
	o, err := e.order.PlaceOrder(ctx, customerID)
	require.NoError(t, err)
	return o
}

func line(itemID int64, qty int64) model.CartItem {
	return model.CartItem{MenuItemID: itemID, Quantity: qty}
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// HTTPErrorのステータスとメッセージを確認
func assertHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !assert.True(t, ok, "want HTTPError, got %v", err) {
		return
	}
	assert.Equal(t, status, he.Status)
	if msg != "" {
		assert.Equal(t, msg, he.Message)
	}
}

// エラー文字列の部分一致（HTTPErrorの実装詳細に依存しない）
func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func orderCode(id int64) string {
	return fmt.Sprintf("ORD-%06d", id)
}
