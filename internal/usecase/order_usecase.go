package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"marketplace/internal/domain/model"
	"marketplace/internal/infra/events"
	"marketplace/internal/infra/lock"
	"marketplace/internal/logger"
	repo "marketplace/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// 顧客側の注文
type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	vendors   repo.VendorRepository
	locker    lock.Locker
	publisher EventPublisher
	clock     Clock
	log       *logger.Logger
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	vendors repo.VendorRepository,
	locker lock.Locker,
	publisher EventPublisher,
	clock Clock,
	log *logger.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		orders:    orders,
		vendors:   vendors,
		locker:    locker,
		publisher: publisher,
		clock:     clock,
		log:       log,
	}
}

// 一覧・詳細で返す形（店舗の要約つき）
type CustomerOrderOutput struct {
	model.Order
	Vendor *model.VendorSummary `json:"vendor"`
}

func placeLockKey(customerID int64) string {
	return "order:place:" + strconv.FormatInt(customerID, 10)
}

// カートから注文を作る（代引き・Pending）
func (u *OrderUsecase) PlaceOrder(ctx context.Context, customerID int64) (order model.Order, err error) {
	if customerID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	ctx, span := otel.Tracer("marketplace/usecase").Start(ctx, "order.place")
	span.SetAttributes(attribute.Int64("customer.id", customerID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int64("order.id", order.ID), attribute.Int64("order.total", order.Total))
		}
		span.End()
	}()

	//同じ顧客の確定処理は直列に
	release, err := u.locker.Acquire(ctx, placeLockKey(customerID))
	if errors.Is(err, lock.ErrNotAcquired) {
		return model.Order{}, NewHTTPError(http.StatusConflict, "order placement already in progress")
	}
	if err != nil {
		u.log.Error("order lock failed", "customerId", customerID, "error", err)
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "lock error")
	}
	defer release()

	now := u.clock.Now()

	//注文作成とカートクリアは1トランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		customer, err := r.Customers().FindByID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Customer not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cart, err := r.Carts().FindByCustomerID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) || (err == nil && cart.IsEmpty()) {
			return NewHTTPError(http.StatusBadRequest, "Your cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		ids := make([]int64, 0, len(cart.Items))
		for _, it := range cart.Items {
			ids = append(ids, it.MenuItemID)
		}
		menu, err := r.MenuItems().FindByIDs(ctx, ids)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//店舗はカートに持っているID、無ければ先頭の明細から
		var vendorID int64
		if cart.VendorID != nil {
			vendorID = *cart.VendorID
		} else {
			first, ok := menu[cart.Items[0].MenuItemID]
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "item no longer exists")
			}
			vendorID = first.VendorID
		}

		vendor, err := r.Vendors().FindByID(ctx, vendorID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Vendor not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//スナップショット（この時点の名前と価格）
		items := make([]model.OrderItem, 0, len(cart.Items))
		var subtotal int64
		for _, ci := range cart.Items {
			mi, ok := menu[ci.MenuItemID]
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "item no longer exists")
			}
			if !ci.ValidQuantity() {
				return NewHTTPError(http.StatusBadRequest, "Invalid quantity in cart")
			}
			lineTotal, ok := mulAmount(mi.Price, ci.Quantity)
			if ok {
				subtotal, ok = addAmount(subtotal, lineTotal)
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, msgAmountTooLarge)
			}
			items = append(items, model.OrderItem{
				MenuItemID: mi.ID,
				ItemName:   mi.Name,
				Price:      mi.Price,
				Quantity:   ci.Quantity,
			})
		}
		total, ok := addAmount(subtotal, vendor.DeliveryPrice)
		if !ok {
			return NewHTTPError(http.StatusBadRequest, msgAmountTooLarge)
		}

		order = model.Order{
			CustomerID:      customer.ID,
			CustomerName:    customer.Name,
			CustomerPhone:   customer.Phone,
			DeliveryAddress: customer.Address,
			VendorID:        vendor.ID,
			Items:           items,
			Subtotal:        subtotal,
			DeliveryPrice:   vendor.DeliveryPrice,
			Total:           total,
			Status:          model.OrderStatusPending,
			PaymentMethod:   model.PaymentMethodCOD,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを空に（読んだ後に更新されていたらロールバック）
		cart.Items = []model.CartItem{}
		cart.VendorID = nil
		if _, err := r.Carts().Save(ctx, cart); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, "cart was modified concurrently, retry")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	u.publish(ctx, events.NewOrderPlaced(order, now))
	return order, nil
}

// 自分の注文（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, customerID int64) ([]CustomerOrderOutput, error) {
	if customerID <= 0 {
		return []CustomerOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListByCustomerID(ctx, customerID)
	if err != nil {
		return []CustomerOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.VendorID)
	}
	vendors, err := u.vendors.FindByIDs(ctx, ids)
	if err != nil {
		return []CustomerOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]CustomerOrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toCustomerOrderOutput(o, vendors))
	}
	return outs, nil
}

// 他人の注文は404（存在を漏らさない）
func (u *OrderUsecase) GetMyOrder(ctx context.Context, customerID int64, orderID int64) (CustomerOrderOutput, error) {
	if customerID <= 0 {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//所有チェック
	if o.CustomerID != customerID {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}

	vendors, err := u.vendors.FindByIDs(ctx, []int64{o.VendorID})
	if err != nil {
		return CustomerOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toCustomerOrderOutput(o, vendors), nil
}

func toCustomerOrderOutput(o model.Order, vendors map[int64]model.Vendor) CustomerOrderOutput {
	out := CustomerOrderOutput{Order: o}
	if v, ok := vendors[o.VendorID]; ok {
		s := v.Summary()
		out.Vendor = &s
	}
	return out
}

// 送信失敗は注文の成否に影響させない
func (u *OrderUsecase) publish(ctx context.Context, evt events.OrderEvent) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, evt); err != nil {
		u.log.Warn("publish order event failed", "type", evt.Type, "orderId", evt.OrderID, "error", err)
	}
}
