package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardWindow      = 30 * 24 * time.Hour
	dashboardRecentLimit = 5
)

// 店舗ダッシュボードの集計
type DashboardUsecase struct {
	orders  repo.OrderRepository
	vendors repo.VendorRepository
	clock   Clock
}

// DI
func NewDashboardUsecase(orders repo.OrderRepository, vendors repo.VendorRepository, clock Clock) *DashboardUsecase {
	return &DashboardUsecase{orders: orders, vendors: vendors, clock: clock}
}

type DashboardStats struct {
	TotalOrders    int64  `json:"totalOrders"`
	OrderChange    string `json:"orderChange"`
	TotalRevenue   int64  `json:"totalRevenue"`
	RevenueChange  string `json:"revenueChange"`
	DeliveryPrice  int64  `json:"deliveryPrice"`
	TotalCustomers int64  `json:"totalCustomers"`
	CustomerChange string `json:"customerChange"`
}

type RecentOrder struct {
	ID            int64             `json:"id"`
	OrderID       string            `json:"orderId"`
	Customer      string            `json:"customer"`
	CustomerPhone string            `json:"customerPhone"`
	Items         int               `json:"items"`
	Amount        int64             `json:"amount"`
	Status        model.OrderStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type DashboardOutput struct {
	Stats        DashboardStats `json:"stats"`
	RecentOrders []RecentOrder  `json:"recentOrders"`
}

// 直近30日とその前の30日を比べる
func (u *DashboardUsecase) Stats(ctx context.Context, vendorID int64) (DashboardOutput, error) {
	if vendorID <= 0 {
		return DashboardOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	vendor, err := u.vendors.FindByID(ctx, vendorID)
	if errors.Is(err, repo.ErrNotFound) {
		return DashboardOutput{}, NewHTTPError(http.StatusNotFound, "Vendor not found")
	}
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	thirtyDaysAgo := now.Add(-dashboardWindow)
	sixtyDaysAgo := now.Add(-2 * dashboardWindow)

	//集計3本と直近注文は並列に読む
	var (
		total, recent, previous repo.OrderStats
		latest                  []model.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = u.orders.StatsByVendor(gctx, vendorID, repo.StatsRange{})
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = u.orders.StatsByVendor(gctx, vendorID, repo.StatsRange{From: &thirtyDaysAgo})
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = u.orders.StatsByVendor(gctx, vendorID, repo.StatsRange{From: &sixtyDaysAgo, To: &thirtyDaysAgo})
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = u.orders.ListByVendorID(gctx, vendorID, dashboardRecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	recentOrders := make([]RecentOrder, 0, len(latest))
	for _, o := range latest {
		recentOrders = append(recentOrders, RecentOrder{
			ID:            o.ID,
			OrderID:       fmt.Sprintf("ORD-%06d", o.ID),
			Customer:      o.CustomerName,
			CustomerPhone: o.CustomerPhone,
			Items:         len(o.Items),
			Amount:        o.Total,
			Status:        o.Status,
			CreatedAt:     o.CreatedAt,
		})
	}

	return DashboardOutput{
		Stats: DashboardStats{
			TotalOrders:    total.Count,
			OrderChange:    changeString(recent.Count, previous.Count, "%"),
			TotalRevenue:   total.Revenue,
			RevenueChange:  changeString(recent.Revenue, previous.Revenue, "%"),
			DeliveryPrice:  vendor.DeliveryPrice,
			TotalCustomers: total.Customers,
			CustomerChange: changeString(recent.Customers, previous.Customers, ""),
		},
		RecentOrders: recentOrders,
	}, nil
}

// 前期間が0なら +100（今期もあり）か +0
func changeString(recent int64, previous int64, suffix string) string {
	if previous > 0 {
		pct := float64(recent-previous) / float64(previous) * 100
		return fmt.Sprintf("%+.1f", pct) + suffix
	}
	if recent > 0 {
		return "+100" + suffix
	}
	return "+0" + suffix
}
