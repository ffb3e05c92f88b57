package usecase

import "math"

const msgAmountTooLarge = "Cart total is too large"

// 負でない金額・数量の掛け算（溢れたらfalse）
func mulAmount(a int64, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

// 負でない金額の足し算（溢れたらfalse）
func addAmount(a int64, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
