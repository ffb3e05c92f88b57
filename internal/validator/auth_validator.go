package validator

import (
	"net/http"
	"regexp"
	"strings"

	"marketplace/internal/usecase"
	auth "marketplace/internal/usecase/auth_usecase"
)

const minPasswordLen = 8

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() auth.Validator {
	return &authValidator{}
}

// 顧客サインアップの入力を検証
func (v *authValidator) ValidateCustomerSignup(in auth.RegisterCustomerInput) error {
	// 必須チェック
	if blank(in.Name, in.Email, in.Password, in.Phone, in.Address) {
		return badRequest("Name, email, password, phone, and address are required")
	}
	return validateCredentials(in.Email, in.Password)
}

// 店舗サインアップの入力を検証
func (v *authValidator) ValidateVendorSignup(in auth.RegisterVendorInput) error {
	if blank(in.Name, in.Email, in.Password, in.ShopName, in.Phone, in.Address) {
		return badRequest("All fields are required")
	}
	if in.DeliveryPrice != nil && *in.DeliveryPrice < 0 {
		return badRequest("Delivery price must be >= 0")
	}
	return validateCredentials(in.Email, in.Password)
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(in auth.LoginInput) error {
	if blank(in.Email, in.Password) {
		return badRequest("Email and password are required")
	}
	return nil
}

func validateCredentials(email string, password string) error {
	// email形式
	if !isEmailLike(strings.TrimSpace(email)) {
		return badRequest("invalid email format")
	}
	// パスワード最低文字数
	if len(strings.TrimSpace(password)) < minPasswordLen {
		return badRequest("password must be at least 8 characters")
	}
	return nil
}

func blank(values ...string) bool {
	for _, s := range values {
		if strings.TrimSpace(s) == "" {
			return true
		}
	}
	return false
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}

func badRequest(msg string) error {
	return usecase.NewHTTPError(http.StatusBadRequest, msg)
}
