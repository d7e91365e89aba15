package financing

import "math"

// DSCR is NOI over annual debt service. Zero debt service is reported as
// infinite coverage rather than an error.
func DSCR(noi, annualDebtService float64) float64 {
	if annualDebtService == 0 {
		return math.Inf(1)
	}
	return noi / annualDebtService
}

// DebtYield returns NOI / loan balance as a percentage; zero for an unlevered
// position.
func DebtYield(noi, loanBalance float64) float64 {
	if loanBalance == 0 {
		return 0
	}
	return noi / loanBalance * 100
}

// LTV returns loan balance / property value as a percentage; zero when the
// value is zero.
func LTV(loanBalance, propertyValue float64) float64 {
	if propertyValue == 0 {
		return 0
	}
	return loanBalance / propertyValue * 100
}
