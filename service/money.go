package service

import "github.com/shopspring/decimal"

// round2 rounds to cents, half away from zero. All amounts that reach a
// wallet or a ledger entry pass through here.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// mulRound2 computes amount*rate in decimal space before rounding, so e.g.
// 19.99 * 0.05 does not pick up float artifacts first.
func mulRound2(amount, rate float64) float64 {
	f, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Round(2).Float64()
	return f
}

// divRound2 divides in decimal space and rounds to cents.
func divRound2(amount float64, by int) float64 {
	f, _ := decimal.NewFromFloat(amount).
		Div(decimal.NewFromInt(int64(by))).
		Round(2).Float64()
	return f
}
