package financing

// Constraint identifies which sizing constraint bound the loan.
type Constraint string

const (
	ConstraintLTV  Constraint = "LTV"
	ConstraintDSCR Constraint = "DSCR"
)

// SizedLoan is the outcome of dual-constraint loan sizing.
type SizedLoan struct {
	Amount    float64
	MaxByLTV  float64
	MaxByDSCR float64
	Binding   Constraint
}

// SizeLoan computes the LTV- and DSCR-constrained maxima and selects between
// them: conservative takes the minimum (both constraints satisfied),
// aggressive takes the maximum (lender waives the tighter one).
func SizeLoan(propertyValue, noi, annualRatePct float64, amortYears int, targetLTVPct, targetDSCR float64, conservative bool) SizedLoan {
	byLTV := MaxLoanByLTV(propertyValue, targetLTVPct)
	byDSCR := MaxLoanByDSCR(noi, annualRatePct, amortYears, targetDSCR)

	sized := SizedLoan{MaxByLTV: byLTV, MaxByDSCR: byDSCR}
	if conservative {
		if byLTV < byDSCR {
			sized.Amount, sized.Binding = byLTV, ConstraintLTV
		} else {
			sized.Amount, sized.Binding = byDSCR, ConstraintDSCR
		}
	} else {
		if byLTV > byDSCR {
			sized.Amount, sized.Binding = byLTV, ConstraintLTV
		} else {
			sized.Amount, sized.Binding = byDSCR, ConstraintDSCR
		}
	}
	return sized
}
