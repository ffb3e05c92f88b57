package handler

import (
	"errors"
	"net/http"

	"marketplace/internal/domain/model"
	auth "marketplace/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// 顧客・店舗のサインアップとログイン
type AuthHandler struct {
	registerCustomer *auth.RegisterCustomerUsecase
	loginCustomer    *auth.LoginCustomerUsecase
	registerVendor   *auth.RegisterVendorUsecase
	loginVendor      *auth.LoginVendorUsecase
}

// DI
func NewAuthHandler(
	registerCustomer *auth.RegisterCustomerUsecase,
	loginCustomer *auth.LoginCustomerUsecase,
	registerVendor *auth.RegisterVendorUsecase,
	loginVendor *auth.LoginVendorUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerCustomer: registerCustomer,
		loginCustomer:    loginCustomer,
		registerVendor:   registerVendor,
		loginVendor:      loginVendor,
	}
}

type CustomerSignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type VendorSignupRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ShopName      string `json:"shopName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	DeliveryPrice *int64 `json:"deliveryPrice"`
	Logo          string `json:"logo"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CustomerAuthResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    model.Customer `json:"user"`
}

type VendorAuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	Vendor  model.Vendor `json:"vendor"`
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/customers/signup", h.customerSignup)
	api.POST("/customers/login", h.customerLogin)
	api.POST("/vendor/signup", h.vendorSignup)
	api.POST("/vendor/login", h.vendorLogin)
}

func (h *AuthHandler) customerSignup(c echo.Context) error {
	var req CustomerSignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.registerCustomer.Execute(c.Request().Context(), auth.RegisterCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, CustomerAuthResponse{
		Message: "Customer registered",
		Token:   out.Token,
		User:    out.Customer,
	})
}

func (h *AuthHandler) customerLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.loginCustomer.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, CustomerAuthResponse{
		Message: "Login successful",
		Token:   out.Token,
		User:    out.Customer,
	})
}

func (h *AuthHandler) vendorSignup(c echo.Context) error {
	var req VendorSignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.registerVendor.Execute(c.Request().Context(), auth.RegisterVendorInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		ShopName:      req.ShopName,
		Phone:         req.Phone,
		Address:       req.Address,
		DeliveryPrice: req.DeliveryPrice,
		Logo:          req.Logo,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, VendorAuthResponse{
		Message: "Vendor registered successfully",
		Token:   out.Token,
		Vendor:  out.Vendor,
	})
}

func (h *AuthHandler) vendorLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.loginVendor.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, VendorAuthResponse{
		Message: "Login successful",
		Token:   out.Token,
		Vendor:  out.Vendor,
	})
}

// authの番兵エラーをステータスへ
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already registered"})
	case errors.Is(err, auth.ErrVendorAlreadyExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "Vendor with this email or shop name already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
	}
	return writeError(c, err)
}
