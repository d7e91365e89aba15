package pipeline

import (
	"fmt"

	"cre_underwriting/pkg/core/financing"
)

// DebtYear is one row of the lender-facing metrics table. LTV is measured
// against the exit sale price as a rough standing-value proxy.
type DebtYear struct {
	Year        int
	LoanType    string
	LoanBalance float64
	NOI         float64
	DebtService float64
	DSCR        float64
	DebtYield   float64
	LTV         float64
}

// PaydownYear tracks principal amortization. In a refinance year the old
// loan is replaced, so the row restarts from the new balance and shows a
// first year of new-loan interest instead of a balance delta.
type PaydownYear struct {
	Year             int
	StartingBalance  float64
	PrincipalPaid    float64
	InterestPaid     float64
	EndingBalance    float64
	RefinancedInYear bool
}

// DebtAnalysis is the lender view over the whole hold.
type DebtAnalysis struct {
	Years   []DebtYear
	Paydown []PaydownYear

	MinDSCR          float64
	MinDSCRYear      int
	MaxLTV           float64
	MaxLTVYear       int
	MinDebtYield     float64
	TotalDebtService float64

	// Warnings flag metrics outside typical lender thresholds.
	Warnings []string
}

// analyzeDebt derives per-year lender metrics and the principal paydown
// schedule from the finished cash-flow table.
func analyzeDebt(rows []CashflowYear, initialLoan, permRatePct, salePrice float64) DebtAnalysis {
	a := DebtAnalysis{
		Years:   make([]DebtYear, 0, len(rows)),
		Paydown: make([]PaydownYear, 0, len(rows)),
	}

	for i, r := range rows {
		dy := DebtYear{
			Year:        r.Year,
			LoanType:    r.LoanType,
			LoanBalance: r.LoanBalance,
			NOI:         r.NOI,
			DebtService: r.DebtService,
			DSCR:        financing.DSCR(r.NOI, r.DebtService),
			DebtYield:   financing.DebtYield(r.NOI, r.LoanBalance),
			LTV:         financing.LTV(r.LoanBalance, salePrice),
		}
		a.Years = append(a.Years, dy)
		a.TotalDebtService += r.DebtService

		if i == 0 || dy.DSCR < a.MinDSCR {
			a.MinDSCR = dy.DSCR
			a.MinDSCRYear = r.Year
		}
		if i == 0 || dy.LTV > a.MaxLTV {
			a.MaxLTV = dy.LTV
			a.MaxLTVYear = r.Year
		}
		if i == 0 || dy.DebtYield < a.MinDebtYield {
			a.MinDebtYield = dy.DebtYield
		}

		starting := initialLoan
		if i > 0 {
			starting = rows[i-1].LoanBalance
		}
		ending := r.LoanBalance

		// A balance that grew means the loan was replaced this year.
		refied := i > 0 && ending > starting
		p := PaydownYear{Year: r.Year, EndingBalance: ending, RefinancedInYear: refied}
		if refied {
			p.InterestPaid = ending * permRatePct / 100
			p.PrincipalPaid = r.DebtService - p.InterestPaid
			p.StartingBalance = ending
		} else {
			p.StartingBalance = starting
			p.PrincipalPaid = starting - ending
			p.InterestPaid = r.DebtService - p.PrincipalPaid
		}
		if p.PrincipalPaid < 0 {
			p.PrincipalPaid = 0
		}
		a.Paydown = append(a.Paydown, p)
	}

	switch {
	case a.MinDSCR < 1.0:
		a.Warnings = append(a.Warnings, fmt.Sprintf("DSCR below 1.0x in year %d (%.2fx): negative cash flow", a.MinDSCRYear, a.MinDSCR))
	case a.MinDSCR < 1.25:
		a.Warnings = append(a.Warnings, fmt.Sprintf("DSCR below 1.25x in year %d (%.2fx): tight coverage", a.MinDSCRYear, a.MinDSCR))
	}
	if a.MaxLTV > 80 {
		a.Warnings = append(a.Warnings, fmt.Sprintf("LTV exceeds 80%% in year %d (%.1f%%)", a.MaxLTVYear, a.MaxLTV))
	}
	return a
}
