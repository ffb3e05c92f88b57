package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"marketplace/internal/logger"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			requestLogger(c).Error("request failed", "status", he.Status, "message", he.Message)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500（中身は返さない）
	requestLogger(c).Error("unexpected error", "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 金額・数量は整数（金額は最小通貨単位）。小数は項目名つきで返す。
var wholeNumberFields = map[string]string{
	"price":         "Price must be a whole number in minor currency units",
	"deliveryPrice": "Delivery price must be a whole number in minor currency units",
	"quantity":      "Quantity must be a whole number",
}

// Bindの失敗を返すメッセージにする
func bindErrorMessage(err error) string {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		if msg, ok := wholeNumberFields[ute.Field]; ok {
			return msg
		}
	}
	return "invalid body"
}

// middleware.RequestLogger が入れたロガー
func requestLogger(c echo.Context) *logger.Logger {
	if l, ok := c.Get(middleware.CtxLoggerKey).(*logger.Logger); ok {
		return l
	}
	return logger.NewNop()
}

// middleware.AuthJWT が c.Set した値を取り出す
func getPrincipalIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxPrincipalIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
