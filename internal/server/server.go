package server

import (
	"context"
	"net/http"

	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/logger"
	"marketplace/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// ルート登録に必要なハンドラ一式
type Handlers struct {
	Auth        *handler.AuthHandler
	Customer    *handler.CustomerHandler
	Vendor      *handler.VendorHandler
	Cart        *handler.CartHandler
	Order       *handler.OrderHandler
	VendorOrder *handler.VendorOrderHandler
}

// DBの疎通確認（/health用）
type PingFunc func(ctx context.Context) error

// echoを組み立てる（起動・停止はmain）
func New(cfg config.Config, log *logger.Logger, ping PingFunc, verifier middleware.TokenVerifier, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: cfg.FEURL != "*",
	}))
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Tracing())

	RegisterRoutes(e, ping, verifier, h)
	return e
}
