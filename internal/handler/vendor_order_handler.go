package handler

import (
	"net/http"

	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /vendor/orders（店舗の注文管理）
type VendorOrderHandler struct {
	uc *usecase.VendorOrderUsecase
}

// DI
func NewVendorOrderHandler(uc *usecase.VendorOrderUsecase) *VendorOrderHandler {
	return &VendorOrderHandler{uc: uc}
}

type UpdateOrderStatusRequest struct {
	NewStatus string `json:"newStatus"`
}

type VendorOrdersResponse struct {
	Orders []usecase.VendorOrderOutput `json:"orders"`
}

type VendorOrderResponse struct {
	Order usecase.VendorOrderOutput `json:"order"`
}

type UpdateOrderStatusResponse struct {
	Message string      `json:"message"`
	Order   model.Order `json:"order"`
}

type StatusHistoryResponse struct {
	History []usecase.StatusChange `json:"history"`
}

func (h *VendorOrderHandler) RegisterRoutes(api *echo.Group, verifier middleware.TokenVerifier) {
	g := api.Group("/vendor/orders", middleware.AuthJWT(verifier, model.RoleVendor))

	g.GET("", h.list)
	g.GET("/:orderId", h.detail)
	g.PATCH("/:orderId/status", h.updateStatus)
	g.GET("/:orderId/history", h.history)
}

func (h *VendorOrderHandler) list(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListVendorOrders(c.Request().Context(), vendorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, VendorOrdersResponse{Orders: out})
}

func (h *VendorOrderHandler) detail(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetVendorOrder(c.Request().Context(), vendorID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, VendorOrderResponse{Order: out})
}

func (h *VendorOrderHandler) updateStatus(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), vendorID, orderID, usecase.UpdateOrderStatusInput{
		NewStatus: req.NewStatus,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, UpdateOrderStatusResponse{Message: "Order status updated successfully", Order: out})
}

func (h *VendorOrderHandler) history(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.StatusHistory(c.Request().Context(), vendorID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, StatusHistoryResponse{History: out})
}
