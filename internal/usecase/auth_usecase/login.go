package auth

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/domain/model"
	"marketplace/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// 平文(plain)をbcryptで比較
func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}

type LoginCustomerUsecase struct {
	customers repository.CustomerRepository
	verifier  PasswordVerifier
	issuer    TokenIssuer
	validator Validator
}

func NewLoginCustomerUsecase(
	customers repository.CustomerRepository,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	validator Validator,
) *LoginCustomerUsecase {
	return &LoginCustomerUsecase{
		customers: customers,
		verifier:  verifier,
		issuer:    issuer,
		validator: validator,
	}
}

// ログイン処理を実行する
func (u *LoginCustomerUsecase) Execute(ctx context.Context, in LoginInput) (CustomerAuthOutput, error) {
	var out CustomerAuthOutput

	if err := u.validator.ValidateLogin(in); err != nil {
		return out, err
	}

	//emailで取得（存在しない場合もパスワード違いと同じエラー）
	c, err := u.customers.FindByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, c.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	token, exp, err := u.issuer.Issue(c.ID, model.RoleCustomer)
	if err != nil {
		return out, err
	}

	out.Customer = c
	out.Token = token
	out.ExpiresAt = exp
	return out, nil
}

type LoginVendorUsecase struct {
	vendors   repository.VendorRepository
	verifier  PasswordVerifier
	issuer    TokenIssuer
	validator Validator
}

func NewLoginVendorUsecase(
	vendors repository.VendorRepository,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	validator Validator,
) *LoginVendorUsecase {
	return &LoginVendorUsecase{
		vendors:   vendors,
		verifier:  verifier,
		issuer:    issuer,
		validator: validator,
	}
}

func (u *LoginVendorUsecase) Execute(ctx context.Context, in LoginInput) (VendorAuthOutput, error) {
	var out VendorAuthOutput

	if err := u.validator.ValidateLogin(in); err != nil {
		return out, err
	}

	v, err := u.vendors.FindByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//登録時はtrimしてハッシュ化している
	if ok := u.verifier.Verify(strings.TrimSpace(in.Password), v.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	token, exp, err := u.issuer.Issue(v.ID, model.RoleVendor)
	if err != nil {
		return out, err
	}

	out.Vendor = v
	out.Token = token
	out.ExpiresAt = exp
	return out, nil
}
