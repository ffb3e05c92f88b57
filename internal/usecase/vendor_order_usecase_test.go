package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"marketplace/internal/domain/model"
	"marketplace/internal/infra/events"
	"marketplace/internal/logger"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders    repo.OrderRepository
	auditLogs repo.AuditLogRepository
}

func (r *TxReposMock) Customers() repo.CustomerRepository { return nil }
func (r *TxReposMock) Vendors() repo.VendorRepository     { return nil }
func (r *TxReposMock) MenuItems() repo.MenuItemRepository { return nil }
func (r *TxReposMock) Carts() repo.CartRepository         { return nil }
func (r *TxReposMock) Orders() repo.OrderRepository       { return r.orders }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	panic("not used in VendorOrderUsecase tests")
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error) {
	panic("not used in VendorOrderUsecase tests")
}

func (m *OrderRepoMock) ListByVendorID(ctx context.Context, vendorID int64, limit int) ([]model.Order, error) {
	args := m.Called(ctx, vendorID, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, vendorID int64, from model.OrderStatus, to model.OrderStatus) error {
	args := m.Called(ctx, orderID, vendorID, from, to)
	return args.Error(0)
}

func (m *OrderRepoMock) StatsByVendor(ctx context.Context, vendorID int64, r repo.StatsRange) (repo.OrderStats, error) {
	panic("not used in VendorOrderUsecase tests")
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) ListOrderStatusChanges(ctx context.Context, vendorID int64, orderID int64) ([]model.AuditLog, error) {
	args := m.Called(ctx, vendorID, orderID)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, evt events.OrderEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type vendorOrderMocks struct {
	tx     *TxManagerMock
	orders *OrderRepoMock
	audit  *AuditRepoMock
	pub    *PublisherMock
	uc     *usecase.VendorOrderUsecase
}

func newVendorOrderMocks() vendorOrderMocks {
	orders := new(OrderRepoMock)
	audit := new(AuditRepoMock)
	tx := &TxManagerMock{Repos: &TxReposMock{orders: orders, auditLogs: audit}}
	pub := new(PublisherMock)

	uc := usecase.NewVendorOrderUsecase(tx, orders, nil, audit, pub, newFixedClock(baseTime), logger.NewNop())
	return vendorOrderMocks{tx: tx, orders: orders, audit: audit, pub: pub, uc: uc}
}

func pendingOrder(id, vendorID int64, status model.OrderStatus) model.Order {
	return model.Order{ID: id, VendorID: vendorID, CustomerID: 7, Status: status, Total: 170}
}

// =====================
// UpdateStatus tests
// =====================

func TestVendorOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	m := newVendorOrderMocks()

	_, err := m.uc.UpdateStatus(context.Background(), 1, 10, usecase.UpdateOrderStatusInput{NewStatus: "Cancelled"})
	assertHTTPError(t, err, http.StatusBadRequest, "Invalid status provided")

	//ステータス値が不正ならDBを見ない
	m.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	m.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestVendorOrderUsecase_UpdateStatus_NotFound(t *testing.T) {
	m := newVendorOrderMocks()
	ctx := context.Background()

	m.tx.On("WithinTx", ctx).Return()
	m.orders.On("FindByID", ctx, int64(10)).Return(model.Order{}, repo.ErrNotFound)

	_, err := m.uc.UpdateStatus(ctx, 1, 10, usecase.UpdateOrderStatusInput{NewStatus: "Preparing"})
	assertHTTPError(t, err, http.StatusNotFound, "Order not found")
}

func TestVendorOrderUsecase_UpdateStatus_OtherVendorsOrder(t *testing.T) {
	m := newVendorOrderMocks()
	ctx := context.Background()

	m.tx.On("WithinTx", ctx).Return()
	m.orders.On("FindByID", ctx, int64(10)).Return(pendingOrder(10, 2, model.OrderStatusPending), nil)

	_, err := m.uc.UpdateStatus(ctx, 1, 10, usecase.UpdateOrderStatusInput{NewStatus: "Preparing"})
	assertHTTPError(t, err, http.StatusNotFound, "Order not found")
	m.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVendorOrderUsecase_UpdateStatus_SkipIsRejected(t *testing.T) {
	m := newVendorOrderMocks()
	ctx := context.Background()

	m.tx.On("WithinTx", ctx).Return()
	m.orders.On("FindByID", ctx, int64(10)).Return(pendingOrder(10, 1, model.OrderStatusPending), nil)

	_, err := m.uc.UpdateStatus(ctx, 1, 10, usecase.UpdateOrderStatusInput{NewStatus: "Delivered"})
	assertHTTPError(t, err, http.StatusBadRequest, "Invalid transition: Pending → Delivered. Allowed: Pending → Preparing")
	m.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestVendorOrderUsecase_UpdateStatus_TerminalAndSameStatus(t *testing.T) {
	m := newVendorOrderMocks()
	ctx := context.Background()

	m.tx.On("WithinTx", ctx).Return()
	m.orders.On("FindByID", ctx, int64(10)).Return(pendingOrder(10, 1, model.OrderStatusDelivered), nil)
	m.orders.On("FindByID", ctx, int64(11)).Return(pendingOrder(11, 1, model.OrderStatusPreparing), nil)

	_, err := m.uc.UpdateStatus(ctx, 1, 10, usecase.UpdateOrderStatusInput{NewStatus: "Pending"})
	assertHTTPError(t, err, http.StatusBadRequest, "Invalid transition: Delivered → Pending. Allowed: none (Delivered is terminal)")

	//同じステータスへの更新も遷移ではない
	_, err = m.uc.UpdateStatus(ctx, 1, 11, usecase.UpdateOrderStatusInput{NewStatus: "Preparing"})
	assertErrContains(t, err, "Allowed: Preparing → Out for Delivery")
}

func TestVendorOrderUsecase_UpdateStatus_Success(t *testing.T) {
	m := newVendorOrderMocks()
	ctx := context.Background()

	m.tx.On("WithinTx", ctx).Return()
	m.orders.On("FindByID", ctx, int64(10)).Return(pendingOrder(10, 1, model.OrderStatusPending), nil)
	m.orders.On("UpdateStatus", ctx, int64(10), int64(1), model.OrderStatusPending, model.OrderStatusPreparing).Return(nil)
	m.audit.On("Create", ctx, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorVendorID == 1 &&
			l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 10 &&
			l.BeforeJSON == `{"status":"Pending"}` &&
			l.AfterJSON == `{"status":"Preparing"}` &&
			l.CreatedAt.Equal(baseTime)
	})).Return(nil)
	m.pub.On("Publish", ctx, mock.MatchedBy(func(evt events.OrderEvent) bool {
		return evt.Type == events.TypeOrderStatusChanged &&
			evt.OrderID == 10 &&
			evt.Status == model.OrderStatusPreparing &&
			evt.PreviousStatus == model.OrderStatusPending
	})).Return(nil)

	o, err := m.uc.UpdateStatus(ctx, 1, 10, usecase.UpdateOrderStatusInput{NewStatus: " Preparing "})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPreparing, o.Status)
	assert.True(t, o.UpdatedAt.Equal(baseTime))

	m.tx.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.audit.AssertExpectations(t)
	m.pub.AssertExpectations(t)
}

func TestVendorOrderUsecase_UpdateStatus_ConcurrentChange(t *testing.T) {
	m := newVendorOrderMocks()
	ctx := context.Background()

	m.tx.On("WithinTx", ctx).Return()
	m.orders.On("FindByID", ctx, int64(10)).Return(pendingOrder(10, 1, model.OrderStatusPending), nil)
	m.orders.On("UpdateStatus", ctx, int64(10), int64(1), model.OrderStatusPending, model.OrderStatusPreparing).Return(repo.ErrConflict)

	_, err := m.uc.UpdateStatus(ctx, 1, 10, usecase.UpdateOrderStatusInput{NewStatus: "Preparing"})
	assertHTTPError(t, err, http.StatusConflict, "order status was changed concurrently, retry")
	m.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVendorOrderUsecase_UpdateStatus_AuditFailureRollsBack(t *testing.T) {
	m := newVendorOrderMocks()
	ctx := context.Background()

	m.tx.On("WithinTx", ctx).Return()
	m.orders.On("FindByID", ctx, int64(10)).Return(pendingOrder(10, 1, model.OrderStatusPending), nil)
	m.orders.On("UpdateStatus", ctx, int64(10), int64(1), model.OrderStatusPending, model.OrderStatusPreparing).Return(nil)
	m.audit.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

	_, err := m.uc.UpdateStatus(ctx, 1, 10, usecase.UpdateOrderStatusInput{NewStatus: "Preparing"})
	assertHTTPError(t, err, http.StatusInternalServerError, "db error")
	m.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestVendorOrderUsecase_UpdateStatus_PublishErrorIsIgnored(t *testing.T) {
	m := newVendorOrderMocks()
	ctx := context.Background()

	m.tx.On("WithinTx", ctx).Return()
	m.orders.On("FindByID", ctx, int64(10)).Return(pendingOrder(10, 1, model.OrderStatusOutForDelivery), nil)
	m.orders.On("UpdateStatus", ctx, int64(10), int64(1), model.OrderStatusOutForDelivery, model.OrderStatusDelivered).Return(nil)
	m.audit.On("Create", ctx, mock.Anything).Return(nil)
	m.pub.On("Publish", ctx, mock.Anything).Return(errors.New("broker down"))

	o, err := m.uc.UpdateStatus(ctx, 1, 10, usecase.UpdateOrderStatusInput{NewStatus: "Delivered"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, o.Status)
}

// =====================
// sqlite を使った通し
// =====================

func TestVendorOrderUsecase_FullLifecycleAndHistory(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	c := e.seedCustomer(t, "Alice")
	v := e.seedVendor(t, "Curry House", 20)
	other := e.seedVendor(t, "Sushi Bar", 30)
	curry := e.seedItem(t, v.ID, "curry", 50)

	o := e.placeOrder(t, c.ID, line(curry.ID, 1))

	steps := []model.OrderStatus{
		model.OrderStatusPreparing,
		model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered,
	}
	for i, s := range steps {
		e.clock.Set(baseTime.Add(time.Duration(i+1) * time.Minute))
		got, err := e.vendorOrder.UpdateStatus(ctx, v.ID, o.ID, usecase.UpdateOrderStatusInput{NewStatus: string(s)})
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}

	//Deliveredからは動かない
	_, err := e.vendorOrder.UpdateStatus(ctx, v.ID, o.ID, usecase.UpdateOrderStatusInput{NewStatus: "Pending"})
	assertHTTPError(t, err, http.StatusBadRequest, "Invalid transition: Delivered → Pending. Allowed: none (Delivered is terminal)")

	//顧客からも同じステータスが見える
	mine, err := e.order.GetMyOrder(ctx, c.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, mine.Status)

	history, err := e.vendorOrder.StatusHistory(ctx, v.ID, o.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, model.OrderStatusPending, history[0].From)
	assert.Equal(t, model.OrderStatusPreparing, history[0].To)
	assert.Equal(t, model.OrderStatusDelivered, history[2].To)
	assert.True(t, history[0].ChangedAt.Before(history[2].ChangedAt))

	//他店舗からは存在しない扱い
	_, err = e.vendorOrder.GetVendorOrder(ctx, other.ID, o.ID)
	assertHTTPError(t, err, http.StatusNotFound, "Order not found")
	_, err = e.vendorOrder.StatusHistory(ctx, other.ID, o.ID)
	assertHTTPError(t, err, http.StatusNotFound, "Order not found")
	_, err = e.vendorOrder.UpdateStatus(ctx, other.ID, o.ID, usecase.UpdateOrderStatusInput{NewStatus: "Preparing"})
	assertHTTPError(t, err, http.StatusNotFound, "Order not found")

	//イベントは placed + 3回の status_changed
	evts := e.pub.Events()
	require.Len(t, evts, 4)
	assert.Equal(t, events.TypeOrderPlaced, evts[0].Type)
	assert.Equal(t, events.TypeOrderStatusChanged, evts[3].Type)
	assert.Equal(t, model.OrderStatusOutForDelivery, evts[3].PreviousStatus)
}

func TestVendorOrderUsecase_ListVendorOrders(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	alice := e.seedCustomer(t, "Alice")
	bob := e.seedCustomer(t, "Bob")
	v := e.seedVendor(t, "Curry House", 20)
	other := e.seedVendor(t, "Sushi Bar", 30)
	curry := e.seedItem(t, v.ID, "curry", 50)
	sushi := e.seedItem(t, other.ID, "sushi", 80)

	e.placeOrder(t, alice.ID, line(curry.ID, 1))
	e.clock.Set(baseTime.Add(time.Hour))
	latest := e.placeOrder(t, bob.ID, line(curry.ID, 2))
	e.placeOrder(t, alice.ID, line(sushi.ID, 1))

	orders, err := e.vendorOrder.ListVendorOrders(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, latest.ID, orders[0].ID)
	require.NotNil(t, orders[0].Customer)
	assert.Equal(t, "Bob", orders[0].Customer.Name)
	assert.Equal(t, bob.Email, orders[0].Customer.Email)

	got, err := e.vendorOrder.GetVendorOrder(ctx, v.ID, latest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120), got.Total)
	require.NotNil(t, got.Customer)
	assert.Equal(t, bob.ID, got.Customer.ID)
}
