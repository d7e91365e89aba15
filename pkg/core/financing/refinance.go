package financing

import (
	"fmt"
	"math"

	"cre_underwriting/pkg/models"
)

// RefinanceInput collects everything the refinance event needs. NOIAtRefi is
// the refinance-year NOI; PayoffBalance is the outgoing loan's balance.
type RefinanceInput struct {
	NOIAtRefi float64

	Valuation        models.ValuationMethod
	RefiCapRatePct   float64 // cap-rate method
	FixedValue       float64 // fixed-value method
	PurchasePrice    float64 // appreciation method (and cash-out baseline)
	YearsHeld        int     // appreciation method
	AppreciationRate float64 // appreciation method, % per year

	PermRatePct     float64
	PermLTVPct      float64
	PermAmortYears  int
	TargetDSCR      float64
	UseConservative bool

	AllowCashOut  bool
	MaxCashOutPct float64 // % of appraised equity gain

	PayoffBalance    float64
	PrepayPenaltyPct float64
	OrigPointsPct    float64
	LegalCosts       float64
}

// RefinanceResult reports the sized loan, cost stack, and net proceeds.
// Negative NetProceeds means the refinance needs an equity infusion; that is
// a valid outcome, not an error.
type RefinanceResult struct {
	PropertyValue float64
	ValuationNote string
	NOIAtRefi     float64

	Sizing        SizedLoan
	NewLoanAmount float64

	Payoff         float64
	PrepayPenalty  float64
	Origination    float64
	LegalCosts     float64
	TotalCosts     float64
	NetProceeds    float64
	CashOutLimited bool
	CashOutNote    string

	FinalDebtService float64
	FinalDSCR        float64
	FinalLTV         float64
	EquityBefore     float64
	EquityAfter      float64
}

// ImpliedCapRate is NOI over appraised value as a percentage.
func (r *RefinanceResult) ImpliedCapRate() float64 {
	if r.PropertyValue == 0 {
		return 0
	}
	return r.NOIAtRefi / r.PropertyValue * 100
}

// Refinance values the property, sizes the new loan against LTV/DSCR, nets
// proceeds against payoff and costs, and applies the cash-out policy.
func Refinance(in RefinanceInput) RefinanceResult {
	// Step 1: property value under the selected method.
	var value float64
	var note string
	switch in.Valuation {
	case models.ValuationCapRate:
		value = in.NOIAtRefi / (in.RefiCapRatePct / 100)
		note = fmt.Sprintf("NOI $%.0f / %.2f%% cap = $%.0f", in.NOIAtRefi, in.RefiCapRatePct, value)
	case models.ValuationFixedValue:
		value = in.FixedValue
		note = fmt.Sprintf("Appraised value: $%.0f", value)
	default: // appreciation on original purchase price
		value = in.PurchasePrice * math.Pow(1+in.AppreciationRate/100, float64(in.YearsHeld))
		note = fmt.Sprintf("Purchase $%.0f x (1+%.2f%%)^%d = $%.0f", in.PurchasePrice, in.AppreciationRate, in.YearsHeld, value)
	}

	// Steps 2-4: dual-constraint sizing.
	sizing := SizeLoan(value, in.NOIAtRefi, in.PermRatePct, in.PermAmortYears, in.PermLTVPct, in.TargetDSCR, in.UseConservative)
	newLoan := sizing.Amount

	// Step 5: cost stack. Costs are fixed off the unconstrained sizing and
	// are not recomputed when the loan shrinks below.
	prepay := in.PayoffBalance * in.PrepayPenaltyPct / 100
	origination := newLoan * in.OrigPointsPct / 100
	totalCosts := prepay + origination + in.LegalCosts

	// Step 6: net proceeds before cash-out limits.
	net := newLoan - in.PayoffBalance - totalCosts

	limited := false
	cashOutNote := ""
	switch {
	case !in.AllowCashOut && net > 0:
		// Loan sized to cover payoff and costs only.
		newLoan = in.PayoffBalance + totalCosts
		net = 0
		limited = true
		cashOutNote = "Cash-out not allowed - loan sized to cover payoff + costs only"
	case in.AllowCashOut && net > 0:
		equityGained := value - in.PurchasePrice
		maxAllowed := equityGained * in.MaxCashOutPct / 100
		if net > maxAllowed {
			newLoan = in.PayoffBalance + totalCosts + maxAllowed
			net = maxAllowed
			limited = true
			cashOutNote = fmt.Sprintf("Cash-out limited to %.0f%% of equity gained ($%.0f)", in.MaxCashOutPct, maxAllowed)
		} else {
			cashOutNote = "Full proceeds available"
		}
	default:
		if net < 0 {
			cashOutNote = "Cash required to pay down loan"
		} else {
			cashOutNote = "Break-even refi"
		}
	}

	// Step 8: metrics on the final loan.
	finalDS := Payment(newLoan, in.PermRatePct, in.PermAmortYears, false)
	return RefinanceResult{
		PropertyValue:    value,
		ValuationNote:    note,
		NOIAtRefi:        in.NOIAtRefi,
		Sizing:           sizing,
		NewLoanAmount:    newLoan,
		Payoff:           in.PayoffBalance,
		PrepayPenalty:    prepay,
		Origination:      origination,
		LegalCosts:       in.LegalCosts,
		TotalCosts:       totalCosts,
		NetProceeds:      net,
		CashOutLimited:   limited,
		CashOutNote:      cashOutNote,
		FinalDebtService: finalDS,
		FinalDSCR:        DSCR(in.NOIAtRefi, finalDS),
		FinalLTV:         LTV(newLoan, value),
		EquityBefore:     value - in.PayoffBalance,
		EquityAfter:      value - newLoan,
	}
}

// DefaultMinRefiTerm is the lease term a permanent lender typically requires
// to remain after the refinance.
const DefaultMinRefiTerm = 7

// FeasibilityStatus classifies a refinance against remaining lease term.
type FeasibilityStatus string

const (
	Feasible            FeasibilityStatus = "Feasible with current term"
	FeasibleWithRenewal FeasibilityStatus = "Requires tenant to exercise renewal option"
	NotFeasible         FeasibilityStatus = "Not feasible - insufficient lease term"
)

// Feasibility reports whether the lease runway supports the refinance.
type Feasibility struct {
	Feasible    bool
	Status      FeasibilityStatus
	Requirement string
	YearsAtRefi int
}

// CheckFeasibility classifies a planned refinance year against the lease term
// left at that point, with and without renewal options. Informational only;
// the engine still runs the refinance either way.
func CheckFeasibility(currentTermRemaining, optionsRemaining, optionTerm, refiYear, minTermRequired int) Feasibility {
	if minTermRequired <= 0 {
		minTermRequired = DefaultMinRefiTerm
	}
	atRefi := currentTermRemaining - refiYear
	withOptions := atRefi + optionsRemaining*optionTerm

	switch {
	case atRefi >= minTermRequired:
		return Feasibility{Feasible: true, Status: Feasible, YearsAtRefi: atRefi}
	case withOptions >= minTermRequired && optionsRemaining > 0:
		return Feasibility{
			Feasible:    true,
			Status:      FeasibleWithRenewal,
			Requirement: fmt.Sprintf("Must secure renewal commitment before Year %d", refiYear),
			YearsAtRefi: withOptions,
		}
	default:
		return Feasibility{
			Feasible:    false,
			Status:      NotFeasible,
			Requirement: "Cannot refinance - consider bridge loan only",
			YearsAtRefi: atRefi,
		}
	}
}
