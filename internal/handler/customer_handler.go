package handler

import (
	"net/http"

	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /customers（プロフィールと店舗の閲覧）
type CustomerHandler struct {
	profile *usecase.ProfileUsecase
	catalog *usecase.CatalogUsecase
}

// DI
func NewCustomerHandler(profile *usecase.ProfileUsecase, catalog *usecase.CatalogUsecase) *CustomerHandler {
	return &CustomerHandler{profile: profile, catalog: catalog}
}

type UpdateCustomerProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type CustomerProfileResponse struct {
	Message  string         `json:"message,omitempty"`
	Customer model.Customer `json:"customer"`
}

type VendorDetailResponse struct {
	Vendor    model.VendorSummary `json:"vendor"`
	MenuItems []model.MenuItem    `json:"menuItems"`
}

type VendorMenuResponse struct {
	Vendor model.VendorSummary `json:"vendor"`
	Menu   []model.MenuItem    `json:"menu"`
}

func (h *CustomerHandler) RegisterRoutes(api *echo.Group, verifier middleware.TokenVerifier) {
	g := api.Group("/customers")
	authCustomer := middleware.AuthJWT(verifier, model.RoleCustomer)

	g.GET("/profile", h.getProfile, authCustomer)
	g.PUT("/profile", h.updateProfile, authCustomer)

	//公開
	g.GET("/vendors", h.listVendors)
	g.GET("/vendors/:vendorId", h.vendorDetail)
	g.GET("/vendors/:vendorId/menu", h.vendorMenu)
}

func (h *CustomerHandler) getProfile(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.profile.GetCustomer(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CustomerProfileResponse{Customer: out})
}

func (h *CustomerHandler) updateProfile(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateCustomerProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.profile.UpdateCustomer(c.Request().Context(), customerID, usecase.UpdateCustomerProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CustomerProfileResponse{Message: "Profile updated successfully", Customer: out})
}

func (h *CustomerHandler) listVendors(c echo.Context) error {
	out, err := h.catalog.ListVendors(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 販売中のメニューだけ
func (h *CustomerHandler) vendorDetail(c echo.Context) error {
	vendorID, ok := parseIDParam(c, "vendorId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.catalog.VendorMenu(c.Request().Context(), vendorID, true)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, VendorDetailResponse{Vendor: out.Vendor, MenuItems: out.Items})
}

func (h *CustomerHandler) vendorMenu(c echo.Context) error {
	vendorID, ok := parseIDParam(c, "vendorId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.catalog.VendorMenu(c.Request().Context(), vendorID, false)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, VendorMenuResponse{Vendor: out.Vendor, Menu: out.Items})
}
