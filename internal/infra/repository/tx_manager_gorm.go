package repository

import (
	"context"

	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	customers repo.CustomerRepository
	vendors   repo.VendorRepository
	menuItems repo.MenuItemRepository
	carts     repo.CartRepository
	orders    repo.OrderRepository
	auditLogs repo.AuditLogRepository
}

func (r *txReposGorm) Customers() repo.CustomerRepository { return r.customers }
func (r *txReposGorm) Vendors() repo.VendorRepository     { return r.vendors }
func (r *txReposGorm) MenuItems() repo.MenuItemRepository { return r.menuItems }
func (r *txReposGorm) Carts() repo.CartRepository         { return r.carts }
func (r *txReposGorm) Orders() repo.OrderRepository       { return r.orders }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			customers: NewCustomerGormRepository(tx),
			vendors:   NewVendorGormRepository(tx),
			menuItems: NewMenuItemGormRepository(tx),
			carts:     NewCartGormRepository(tx),
			orders:    NewOrderGormRepository(tx),
			auditLogs: NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
