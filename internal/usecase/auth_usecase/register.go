package auth

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/domain/model"
	"marketplace/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// 顧客の登録
type RegisterCustomerUsecase struct {
	customers repository.CustomerRepository
	hasher    PasswordHasher
	issuer    TokenIssuer
	validator Validator
}

// DI
func NewRegisterCustomerUsecase(
	customers repository.CustomerRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	validator Validator,
) *RegisterCustomerUsecase {
	return &RegisterCustomerUsecase{
		customers: customers,
		hasher:    hasher,
		issuer:    issuer,
		validator: validator,
	}
}

func (u *RegisterCustomerUsecase) Execute(ctx context.Context, in RegisterCustomerInput) (CustomerAuthOutput, error) {
	var out CustomerAuthOutput

	if err := u.validator.ValidateCustomerSignup(in); err != nil {
		return out, err
	}
	email := NormalizeEmail(in.Email)

	// email重複チェック
	_, err := u.customers.FindByEmail(ctx, email)
	if err == nil {
		return out, ErrEmailAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	// パスワードをハッシュ化（平文は保存しない）
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	c := &model.Customer{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
	}
	if err := u.customers.Create(ctx, c); err != nil {
		//同時登録はunique制約で弾かれる
		if errors.Is(err, repository.ErrDuplicate) {
			return out, ErrEmailAlreadyExists
		}
		return out, err
	}

	token, exp, err := u.issuer.Issue(c.ID, model.RoleCustomer)
	if err != nil {
		return out, err
	}

	out.Customer = *c
	out.Token = token
	out.ExpiresAt = exp
	return out, nil
}

// 店舗の登録
type RegisterVendorUsecase struct {
	vendors   repository.VendorRepository
	hasher    PasswordHasher
	issuer    TokenIssuer
	validator Validator
}

// DI
func NewRegisterVendorUsecase(
	vendors repository.VendorRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	validator Validator,
) *RegisterVendorUsecase {
	return &RegisterVendorUsecase{
		vendors:   vendors,
		hasher:    hasher,
		issuer:    issuer,
		validator: validator,
	}
}

func (u *RegisterVendorUsecase) Execute(ctx context.Context, in RegisterVendorInput) (VendorAuthOutput, error) {
	var out VendorAuthOutput

	if err := u.validator.ValidateVendorSignup(in); err != nil {
		return out, err
	}
	email := NormalizeEmail(in.Email)
	shopName := strings.TrimSpace(in.ShopName)

	// emailと店舗名はどちらも一意
	exists, err := u.vendors.ExistsByEmailOrShopName(ctx, email, shopName)
	if err != nil {
		return out, err
	}
	if exists {
		return out, ErrVendorAlreadyExists
	}

	hashed, err := u.hasher.Hash(strings.TrimSpace(in.Password))
	if err != nil {
		return out, err
	}

	var deliveryPrice int64
	if in.DeliveryPrice != nil {
		deliveryPrice = *in.DeliveryPrice
	}

	v := &model.Vendor{
		Name:          strings.TrimSpace(in.Name),
		Email:         email,
		PasswordHash:  hashed,
		ShopName:      shopName,
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		DeliveryPrice: deliveryPrice,
		Logo:          strings.TrimSpace(in.Logo),
	}
	if err := u.vendors.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, ErrVendorAlreadyExists
		}
		return out, err
	}

	token, exp, err := u.issuer.Issue(v.ID, model.RoleVendor)
	if err != nil {
		return out, err
	}

	out.Vendor = *v
	out.Token = token
	out.ExpiresAt = exp
	return out, nil
}
