package handler

import (
	"net/http"

	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type PlaceOrderResponse struct {
	Message string      `json:"message"`
	Order   model.Order `json:"order"`
}

type CustomerOrdersResponse struct {
	Orders []usecase.CustomerOrderOutput `json:"orders"`
}

type CustomerOrderResponse struct {
	Order usecase.CustomerOrderOutput `json:"order"`
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group, verifier middleware.TokenVerifier) {
	g := api.Group("/order", middleware.AuthJWT(verifier, model.RoleCustomer))

	g.POST("/place", h.place)
	g.GET("/my-orders", h.list)
	g.GET("/order/:orderId", h.detail)
}

// カートの中身で注文（代引き）
func (h *OrderHandler) place(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, PlaceOrderResponse{Message: "Order placed successfully", Order: out})
}

func (h *OrderHandler) list(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CustomerOrdersResponse{Orders: out})
}

func (h *OrderHandler) detail(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMyOrder(c.Request().Context(), customerID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CustomerOrderResponse{Order: out})
}
