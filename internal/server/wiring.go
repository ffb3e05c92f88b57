package server

import (
	"marketplace/internal/handler"
	"marketplace/internal/infra/lock"
	infraRepo "marketplace/internal/infra/repository"
	"marketplace/internal/infra/token"
	"marketplace/internal/logger"
	"marketplace/internal/usecase"
	auth "marketplace/internal/usecase/auth_usecase"
	"marketplace/internal/validator"

	"gorm.io/gorm"
)

// usecaseに渡す外部部品
type Deps struct {
	Tokens     *token.JWTManager
	Locker     lock.Locker
	Publisher  usecase.EventPublisher
	Clock      usecase.Clock
	Log        *logger.Logger
	BcryptCost int
}

// Repository → Usecase → Handler の組み立て
func NewHandlers(gdb *gorm.DB, d Deps) Handlers {
	//Repository（GORM実装）生成
	customerRepo := infraRepo.NewCustomerGormRepository(gdb)
	vendorRepo := infraRepo.NewVendorGormRepository(gdb)
	menuRepo := infraRepo.NewMenuItemGormRepository(gdb)
	cartRepo := infraRepo.NewCartGormRepository(gdb)
	orderRepo := infraRepo.NewOrderGormRepository(gdb)
	auditRepo := infraRepo.NewAuditLogGormRepository(gdb)
	txm := infraRepo.NewTxManagerGorm(gdb)

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(d.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	v := validator.NewAuthValidator()

	//Usecase生成
	registerCustomer := auth.NewRegisterCustomerUsecase(customerRepo, hasher, d.Tokens, v)
	loginCustomer := auth.NewLoginCustomerUsecase(customerRepo, verifier, d.Tokens, v)
	registerVendor := auth.NewRegisterVendorUsecase(vendorRepo, hasher, d.Tokens, v)
	loginVendor := auth.NewLoginVendorUsecase(vendorRepo, verifier, d.Tokens, v)

	profileUC := usecase.NewProfileUsecase(customerRepo, vendorRepo)
	catalogUC := usecase.NewCatalogUsecase(vendorRepo, menuRepo)
	menuUC := usecase.NewMenuUsecase(menuRepo)
	dashboardUC := usecase.NewDashboardUsecase(orderRepo, vendorRepo, d.Clock)
	cartUC := usecase.NewCartUsecase(cartRepo, menuRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, vendorRepo, d.Locker, d.Publisher, d.Clock, d.Log)
	vendorOrderUC := usecase.NewVendorOrderUsecase(txm, orderRepo, customerRepo, auditRepo, d.Publisher, d.Clock, d.Log)

	//Handler生成
	return Handlers{
		Auth:        handler.NewAuthHandler(registerCustomer, loginCustomer, registerVendor, loginVendor),
		Customer:    handler.NewCustomerHandler(profileUC, catalogUC),
		Vendor:      handler.NewVendorHandler(profileUC, menuUC, dashboardUC),
		Cart:        handler.NewCartHandler(cartUC),
		Order:       handler.NewOrderHandler(orderUC),
		VendorOrder: handler.NewVendorOrderHandler(vendorOrderUC),
	}
}
