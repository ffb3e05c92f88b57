package model

// トークンに載せるロール
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleVendor
}
