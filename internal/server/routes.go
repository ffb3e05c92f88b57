package server

import (
	"context"
	"net/http"
	"time"

	"marketplace/internal/middleware"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status string `json:"status"`
}

func RegisterRoutes(e *echo.Echo, ping PingFunc, verifier middleware.TokenVerifier, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if ping != nil {
			if err := ping(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "db unavailable"})
			}
		}
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	})

	api := e.Group("/api")
	h.Auth.RegisterRoutes(api)
	h.Customer.RegisterRoutes(api, verifier)
	h.Vendor.RegisterRoutes(api, verifier)
	h.Cart.RegisterRoutes(api, verifier)
	h.Order.RegisterRoutes(api, verifier)
	h.VendorOrder.RegisterRoutes(api, verifier)
}
