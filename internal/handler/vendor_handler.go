package handler

import (
	"net/http"

	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /vendor（プロフィール・配送料・ダッシュボード・メニュー）
type VendorHandler struct {
	profile   *usecase.ProfileUsecase
	menu      *usecase.MenuUsecase
	dashboard *usecase.DashboardUsecase
}

// DI
func NewVendorHandler(profile *usecase.ProfileUsecase, menu *usecase.MenuUsecase, dashboard *usecase.DashboardUsecase) *VendorHandler {
	return &VendorHandler{profile: profile, menu: menu, dashboard: dashboard}
}

type UpdateVendorProfileRequest struct {
	Name          *string `json:"name"`
	ShopName      *string `json:"shopName"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Logo          *string `json:"logo"`
	DeliveryPrice *int64  `json:"deliveryPrice"` // 最小通貨単位の整数
}

type UpdateDeliveryPriceRequest struct {
	DeliveryPrice *int64 `json:"deliveryPrice"` // 最小通貨単位の整数
}

type MenuItemRequest struct {
	ItemName    *string `json:"itemName"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"` // 最小通貨単位の整数（小数は400）
	Category    *string `json:"category"`
	Available   *bool   `json:"available"`
	Image       *string `json:"image"`
}

type VendorProfileResponse struct {
	Message string       `json:"message,omitempty"`
	Vendor  model.Vendor `json:"vendor"`
}

type DeliveryPriceResponse struct {
	Message       string `json:"message"`
	DeliveryPrice int64  `json:"deliveryPrice"`
}

type MenuItemResponse struct {
	Message string         `json:"message"`
	Item    model.MenuItem `json:"item"`
}

func (h *VendorHandler) RegisterRoutes(api *echo.Group, verifier middleware.TokenVerifier) {
	g := api.Group("/vendor")
	authVendor := middleware.AuthJWT(verifier, model.RoleVendor)

	g.GET("/profile", h.getProfile, authVendor)
	g.PUT("/profile", h.updateProfile, authVendor)
	g.PUT("/update-delivery-price", h.updateDeliveryPrice, authVendor)
	g.GET("/dashboard/stats", h.dashboardStats, authVendor)

	g.POST("/menu", h.addMenuItem, authVendor)
	g.GET("/menu", h.listMenuItems, authVendor)
	g.PUT("/menu/:itemId", h.updateMenuItem, authVendor)
	g.DELETE("/menu/:itemId", h.deleteMenuItem, authVendor)
}

func (h *VendorHandler) getProfile(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.profile.GetVendor(c.Request().Context(), vendorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, VendorProfileResponse{Vendor: out})
}

func (h *VendorHandler) updateProfile(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateVendorProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.profile.UpdateVendor(c.Request().Context(), vendorID, usecase.UpdateVendorProfileInput{
		Name:          req.Name,
		ShopName:      req.ShopName,
		Phone:         req.Phone,
		Address:       req.Address,
		Logo:          req.Logo,
		DeliveryPrice: req.DeliveryPrice,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, VendorProfileResponse{Message: "Profile updated successfully", Vendor: out})
}

func (h *VendorHandler) updateDeliveryPrice(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateDeliveryPriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	price, err := h.profile.UpdateDeliveryPrice(c.Request().Context(), vendorID, req.DeliveryPrice)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, DeliveryPriceResponse{
		Message:       "Delivery price updated successfully",
		DeliveryPrice: price,
	})
}

func (h *VendorHandler) dashboardStats(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.dashboard.Stats(c.Request().Context(), vendorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VendorHandler) addMenuItem(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.menu.Create(c.Request().Context(), vendorID, usecase.CreateMenuItemInput{
		Name:        deref(req.ItemName),
		Description: deref(req.Description),
		Price:       req.Price,
		Category:    deref(req.Category),
		Available:   req.Available,
		Image:       deref(req.Image),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, MenuItemResponse{Message: "Menu item added successfully", Item: out})
}

func (h *VendorHandler) listMenuItems(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.menu.List(c.Request().Context(), vendorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VendorHandler) updateMenuItem(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.menu.Update(c.Request().Context(), vendorID, itemID, usecase.UpdateMenuItemInput{
		Name:        req.ItemName,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   req.Available,
		Image:       req.Image,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MenuItemResponse{Message: "Menu item updated successfully", Item: out})
}

func (h *VendorHandler) deleteMenuItem(c echo.Context) error {
	vendorID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.menu.Delete(c.Request().Context(), vendorID, itemID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Menu item deleted successfully"})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
