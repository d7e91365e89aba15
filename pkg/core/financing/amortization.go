// Package financing implements loan payment/balance math, LTV/DSCR loan
// sizing, and refinance mechanics for bridge and permanent debt.
package financing

import "math"

// Payment returns the level ANNUAL debt service for a loan.
//
// Interest-only loans pay rate on principal. Amortizing loans use the
// standard monthly-compounding annuity (rate/1200 monthly, term×12 periods)
// annualized; a zero rate degenerates to straight-line principal.
func Payment(principal, annualRatePct float64, termYears int, interestOnly bool) float64 {
	if interestOnly {
		return principal * annualRatePct / 100
	}

	monthlyRate := annualRatePct / 100 / 12
	n := float64(termYears * 12)
	if n == 0 {
		return 0
	}
	if monthlyRate == 0 {
		return principal / n * 12
	}
	growth := math.Pow(1+monthlyRate, n)
	monthly := principal * (monthlyRate * growth) / (growth - 1)
	return monthly * 12
}

// Balance returns the remaining principal at the end of elapsedYears.
//
// An interest-only balance is constant until payoff. An amortizing balance
// is the present value of the remaining monthly payments; it reaches zero
// exactly at the end of the term.
func Balance(principal, annualRatePct float64, termYears, elapsedYears int, interestOnly bool) float64 {
	if interestOnly {
		return principal
	}

	monthlyRate := annualRatePct / 100 / 12
	total := float64(termYears * 12)
	made := float64(elapsedYears * 12)

	if monthlyRate == 0 {
		if total == 0 {
			return 0
		}
		remaining := principal - principal/total*made
		if remaining < 0 {
			return 0
		}
		return remaining
	}

	remaining := total - made
	if remaining <= 0 {
		return 0
	}
	growth := math.Pow(1+monthlyRate, total)
	monthly := principal * (monthlyRate * growth) / (growth - 1)
	remGrowth := math.Pow(1+monthlyRate, remaining)
	return monthly * (remGrowth - 1) / (monthlyRate * remGrowth)
}

// LoanFromPayment inverts the annuity formula: the principal supported by a
// given ANNUAL payment capacity. This is how a DSCR ceiling becomes a loan
// amount.
func LoanFromPayment(annualPayment, annualRatePct float64, amortYears int) float64 {
	monthly := annualPayment / 12
	monthlyRate := annualRatePct / 100 / 12
	n := float64(amortYears * 12)

	if monthlyRate == 0 {
		return monthly * n
	}
	growth := math.Pow(1+monthlyRate, n)
	return monthly * (growth - 1) / (monthlyRate * growth)
}

// MaxLoanByDSCR sizes the largest loan whose payment keeps NOI coverage at
// the target DSCR.
func MaxLoanByDSCR(noi, annualRatePct float64, amortYears int, targetDSCR float64) float64 {
	if targetDSCR == 0 {
		return 0
	}
	return LoanFromPayment(noi/targetDSCR, annualRatePct, amortYears)
}

// MaxLoanByLTV sizes the largest loan permitted by the LTV constraint.
func MaxLoanByLTV(propertyValue, targetLTVPct float64) float64 {
	return propertyValue * targetLTVPct / 100
}
