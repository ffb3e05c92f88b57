package handler

import (
	"net/http"

	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type CartItemRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int64 `json:"quantity"`
}

type CartResponse struct {
	Message string             `json:"message"`
	Cart    usecase.CartOutput `json:"cart"`
}

// /cart 配下を登録（顧客のみ）
func (h *CartHandler) RegisterRoutes(api *echo.Group, verifier middleware.TokenVerifier) {
	g := api.Group("/cart", middleware.AuthJWT(verifier, model.RoleCustomer))

	g.GET("", h.getCart)
	g.POST("/add", h.addItem)
	g.POST("/remove", h.removeItem)
	g.POST("/update", h.updateQuantity)
	g.POST("/clear", h.clearCart)
}

func (h *CartHandler) getCart(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.uc.AddItem(c.Request().Context(), customerID, usecase.AddCartItemInput{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartResponse{Message: "Item added to cart", Cart: out})
}

func (h *CartHandler) removeItem(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), customerID, req.ItemID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartResponse{Message: "Item removed", Cart: out})
}

func (h *CartHandler) updateQuantity(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), customerID, req.ItemID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartResponse{Message: "Quantity updated", Cart: out})
}

func (h *CartHandler) clearCart(c echo.Context) error {
	customerID, ok := getPrincipalIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ClearCart(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartResponse{Message: "Cart cleared", Cart: out})
}
