package financing_test

import (
	"testing"

	"cre_underwriting/pkg/core/financing"
	"cre_underwriting/pkg/models"
)

func baseRefi() financing.RefinanceInput {
	return financing.RefinanceInput{
		NOIAtRefi:        400000,
		Valuation:        models.ValuationCapRate,
		RefiCapRatePct:   6.5,
		PurchasePrice:    5000000,
		YearsHeld:        2,
		PermRatePct:      6.0,
		PermLTVPct:       75,
		PermAmortYears:   25,
		TargetDSCR:       1.25,
		UseConservative:  true,
		AllowCashOut:     true,
		MaxCashOutPct:    80,
		PayoffBalance:    3750000,
		PrepayPenaltyPct: 2.0,
		OrigPointsPct:    1.5,
		LegalCosts:       25000,
	}
}

func TestRefinance_CapRateValuation(t *testing.T) {
	res := financing.Refinance(baseRefi())
	approx(t, res.PropertyValue, 400000/0.065, 0.01, "cap-rate value")
	if res.Sizing.MaxByLTV <= 0 || res.Sizing.MaxByDSCR <= 0 {
		t.Fatal("sizing maxima should be positive")
	}
	// Costs reconcile.
	approx(t, res.TotalCosts, res.PrepayPenalty+res.Origination+res.LegalCosts, 0.01, "cost stack")
}

func TestRefinance_CashOutCap(t *testing.T) {
	// Force a big unconstrained cash-out: fixed value $6M against a small
	// payoff, so equity gained over the $5M basis is exactly $1M and the
	// 80% policy caps net proceeds at $800k.
	in := baseRefi()
	in.Valuation = models.ValuationFixedValue
	in.FixedValue = 6000000
	in.PayoffBalance = 2000000
	in.PrepayPenaltyPct = 0

	res := financing.Refinance(in)
	if !res.CashOutLimited {
		t.Fatal("expected cash-out to be limited")
	}
	approx(t, res.NetProceeds, 800000, 0.01, "capped proceeds")
	if res.NetProceeds > 800000+1e-6 {
		t.Errorf("net proceeds exceed the 80%% cap: %.2f", res.NetProceeds)
	}
	// Loan shrinks to payoff + costs + cap.
	approx(t, res.NewLoanAmount, res.Payoff+res.TotalCosts+800000, 0.01, "loan after cap")
}

func TestRefinance_NoCashOutForcesZeroProceeds(t *testing.T) {
	in := baseRefi()
	in.AllowCashOut = false
	in.PayoffBalance = 2000000
	res := financing.Refinance(in)
	if res.NetProceeds != 0 {
		t.Errorf("proceeds should be forced to zero, got %.2f", res.NetProceeds)
	}
	if !res.CashOutLimited {
		t.Error("expected limited flag when cash-out is disallowed")
	}
	approx(t, res.NewLoanAmount, res.Payoff+res.TotalCosts, 0.01, "loan covers payoff + costs only")
}

func TestRefinance_NegativeProceedsIsValid(t *testing.T) {
	// Value collapse: NOI way down, payoff high. The refi reports the
	// equity infusion rather than failing.
	in := baseRefi()
	in.NOIAtRefi = 150000
	in.PayoffBalance = 4000000
	res := financing.Refinance(in)
	if res.NetProceeds >= 0 {
		t.Fatalf("expected negative net proceeds, got %.2f", res.NetProceeds)
	}
	if res.CashOutLimited {
		t.Error("negative-proceeds refi should not be flagged as cash-out limited")
	}
}

func TestRefinance_AppreciationValuation(t *testing.T) {
	in := baseRefi()
	in.Valuation = models.ValuationAppreciation
	in.AppreciationRate = 3.0
	in.YearsHeld = 2
	res := financing.Refinance(in)
	approx(t, res.PropertyValue, 5000000*1.03*1.03, 0.01, "appreciated value")
}

func TestCheckFeasibility(t *testing.T) {
	// 12 years of term remaining at year 2: 10 > 7, clean.
	f := financing.CheckFeasibility(12, 0, 0, 2, 0)
	if !f.Feasible || f.Status != financing.Feasible {
		t.Errorf("expected feasible, got %+v", f)
	}

	// 6 years remaining at year 2 leaves 4; one 5-year option closes the gap.
	f = financing.CheckFeasibility(6, 1, 5, 2, 0)
	if !f.Feasible || f.Status != financing.FeasibleWithRenewal {
		t.Errorf("expected feasible-with-renewal, got %+v", f)
	}
	if f.Requirement == "" {
		t.Error("renewal path should state its requirement")
	}

	// No options, not enough term.
	f = financing.CheckFeasibility(6, 0, 5, 2, 0)
	if f.Feasible || f.Status != financing.NotFeasible {
		t.Errorf("expected not feasible, got %+v", f)
	}
}

func TestTotalProjectCostAndSources(t *testing.T) {
	uses := financing.TotalProjectCost(5000000, 1.5, 1.5, 1.5, 3750000)
	approx(t, uses.ClosingCosts, 75000, 0.01, "closing")
	approx(t, uses.LoanOrigination, 56250, 0.01, "origination")
	approx(t, uses.AcquisitionFee, 75000, 0.01, "acq fee")
	approx(t, uses.TotalUses, 5000000+75000+56250+75000, 0.01, "total uses")

	su := financing.Sources(5000000, 75, 1000000, 250000, 1.5, 1.5, 1.5)
	approx(t, su.Loan, 3750000, 0.01, "loan")
	approx(t, su.EquityNeeded, su.Uses.TotalUses-su.Loan, 0.01, "equity needed")
	approx(t, su.TotalSources, 3750000+1250000, 0.01, "total sources")
}
