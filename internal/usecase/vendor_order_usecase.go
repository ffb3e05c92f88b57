package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	"marketplace/internal/infra/events"
	"marketplace/internal/logger"
	repo "marketplace/internal/repository"
)

// 店舗側の注文（ステータス更新はここだけ）
type VendorOrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	customers repo.CustomerRepository
	auditRepo repo.AuditLogRepository
	publisher EventPublisher
	clock     Clock
	log       *logger.Logger
}

// DI
func NewVendorOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	customers repo.CustomerRepository,
	auditRepo repo.AuditLogRepository,
	publisher EventPublisher,
	clock Clock,
	log *logger.Logger,
) *VendorOrderUsecase {
	return &VendorOrderUsecase{
		tx:        tx,
		orders:    orders,
		customers: customers,
		auditRepo: auditRepo,
		publisher: publisher,
		clock:     clock,
		log:       log,
	}
}

type UpdateOrderStatusInput struct {
	NewStatus string
}

// 注文者の要約
type CustomerSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type VendorOrderOutput struct {
	model.Order
	Customer *CustomerSummary `json:"customer"`
}

// ステータス履歴1件
type StatusChange struct {
	From      model.OrderStatus `json:"from"`
	To        model.OrderStatus `json:"to"`
	ChangedAt time.Time         `json:"changedAt"`
}

type statusJSON struct {
	Status model.OrderStatus `json:"status"`
}

func (u *VendorOrderUsecase) ListVendorOrders(ctx context.Context, vendorID int64) ([]VendorOrderOutput, error) {
	if vendorID <= 0 {
		return []VendorOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListByVendorID(ctx, vendorID, 0)
	if err != nil {
		return []VendorOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.CustomerID)
	}
	customers, err := u.customers.FindByIDs(ctx, ids)
	if err != nil {
		return []VendorOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]VendorOrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toVendorOrderOutput(o, customers))
	}
	return outs, nil
}

func (u *VendorOrderUsecase) GetVendorOrder(ctx context.Context, vendorID int64, orderID int64) (VendorOrderOutput, error) {
	o, err := u.findOwned(ctx, vendorID, orderID)
	if err != nil {
		return VendorOrderOutput{}, err
	}

	customers, err := u.customers.FindByIDs(ctx, []int64{o.CustomerID})
	if err != nil {
		return VendorOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toVendorOrderOutput(o, customers), nil
}

// 1段階ずつ進める（Pending → Preparing → Out for Delivery → Delivered）
func (u *VendorOrderUsecase) UpdateStatus(ctx context.Context, vendorID int64, orderID int64, in UpdateOrderStatusInput) (model.Order, error) {
	if vendorID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	//所有チェックより先にステータス値を検証
	newStatus := model.OrderStatus(strings.TrimSpace(in.NewStatus))
	if !newStatus.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "Invalid status provided")
	}

	var updated model.Order
	var from model.OrderStatus
	now := u.clock.Now()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//他店舗の注文は404
		if o.VendorID != vendorID {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}

		if !o.Status.CanTransitionTo(newStatus) {
			return NewHTTPError(http.StatusBadRequest, transitionMessage(o.Status, newStatus))
		}

		//読んだ時のステータスのままなら更新
		if err := r.Orders().UpdateStatus(ctx, orderID, vendorID, o.Status, newStatus); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, "order status was changed concurrently, retry")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON, _ := json.Marshal(statusJSON{Status: o.Status})
		afterJSON, _ := json.Marshal(statusJSON{Status: newStatus})
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorVendorID: vendorID,
			Action:        model.AuditActionUpdateOrderStatus,
			ResourceType:  model.AuditResourceOrder,
			ResourceID:    orderID,
			BeforeJSON:    string(beforeJSON),
			AfterJSON:     string(afterJSON),
			CreatedAt:     now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		from = o.Status
		updated = o
		updated.Status = newStatus
		updated.UpdatedAt = now
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	if u.publisher != nil {
		evt := events.NewOrderStatusChanged(updated, from, now)
		if err := u.publisher.Publish(ctx, evt); err != nil {
			u.log.Warn("publish order event failed", "type", evt.Type, "orderId", evt.OrderID, "error", err)
		}
	}
	return updated, nil
}

// ステータス変更の履歴（古い順）
func (u *VendorOrderUsecase) StatusHistory(ctx context.Context, vendorID int64, orderID int64) ([]StatusChange, error) {
	if _, err := u.findOwned(ctx, vendorID, orderID); err != nil {
		return []StatusChange{}, err
	}

	logs, err := u.auditRepo.ListOrderStatusChanges(ctx, vendorID, orderID)
	if err != nil {
		return []StatusChange{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]StatusChange, 0, len(logs))
	for _, l := range logs {
		var before, after statusJSON
		if err := json.Unmarshal([]byte(l.BeforeJSON), &before); err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(l.AfterJSON), &after); err != nil {
			continue
		}
		outs = append(outs, StatusChange{
			From:      before.Status,
			To:        after.Status,
			ChangedAt: l.CreatedAt,
		})
	}
	return outs, nil
}

func (u *VendorOrderUsecase) findOwned(ctx context.Context, vendorID int64, orderID int64) (model.Order, error) {
	if vendorID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.VendorID != vendorID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	return o, nil
}

// 拒否理由（次に進めるステータスを添える）
func transitionMessage(cur model.OrderStatus, req model.OrderStatus) string {
	next, ok := cur.Next()
	if !ok {
		return fmt.Sprintf("Invalid transition: %s → %s. Allowed: none (%s is terminal)", cur, req, cur)
	}
	return fmt.Sprintf("Invalid transition: %s → %s. Allowed: %s → %s", cur, req, cur, next)
}

func toVendorOrderOutput(o model.Order, customers map[int64]model.Customer) VendorOrderOutput {
	out := VendorOrderOutput{Order: o}
	if c, ok := customers[o.CustomerID]; ok {
		out.Customer = &CustomerSummary{
			ID:    c.ID,
			Name:  c.Name,
			Phone: c.Phone,
			Email: c.Email,
		}
	}
	return out
}
