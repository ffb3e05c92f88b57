package auth

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/domain/model"
)

var (
	// 競合
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrVendorAlreadyExists = errors.New("vendor with this email or shop name already exists")

	// メールまたはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// 入力検証の約束（validatorパッケージが実装）
type Validator interface {
	ValidateCustomerSignup(in RegisterCustomerInput) error
	ValidateVendorSignup(in RegisterVendorInput) error
	ValidateLogin(in LoginInput) error
}

// JWTを発行する約束
type TokenIssuer interface {
	Issue(principalID int64, role model.Role) (token string, expiresAt time.Time, err error)
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type RegisterCustomerInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

type RegisterVendorInput struct {
	Name          string
	Email         string
	Password      string
	ShopName      string
	Phone         string
	Address       string
	DeliveryPrice *int64
	Logo          string
}

type LoginInput struct {
	Email    string
	Password string
}

// handlerがJSONにして返す
type CustomerAuthOutput struct {
	Customer  model.Customer
	Token     string
	ExpiresAt time.Time
}

type VendorAuthOutput struct {
	Vendor    model.Vendor
	Token     string
	ExpiresAt time.Time
}

// emailは小文字で保存・検索する
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
