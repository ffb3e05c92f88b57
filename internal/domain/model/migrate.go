package model

// マイグレーション対象
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&Vendor{},
		&MenuItem{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&AuditLog{},
	}
}
