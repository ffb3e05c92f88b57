package model

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusPreparing      OrderStatus = "Preparing"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
)

// 現在→次（一方向のみ、Deliveredは終端）
var nextOrderStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending:        OrderStatusPreparing,
	OrderStatusPreparing:      OrderStatusOutForDelivery,
	OrderStatusOutForDelivery: OrderStatusDelivered,
}

// 1注文で起こりうる遷移の数
var MaxStatusTransitions = len(nextOrderStatus)

// 4つの既知ステータスか
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusOutForDelivery, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// 唯一の遷移先。終端ならfalse。
func (s OrderStatus) Next() (OrderStatus, bool) {
	n, ok := nextOrderStatus[s]
	return n, ok
}

// sからtoへ進めるか（飛び越し・逆戻りは不可）
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	n, ok := s.Next()
	return ok && n == to
}

func (s OrderStatus) IsTerminal() bool {
	_, ok := s.Next()
	return !ok
}
