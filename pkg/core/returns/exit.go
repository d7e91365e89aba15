package returns

import (
	"cre_underwriting/pkg/core/waterfall"
	"cre_underwriting/pkg/models"
)

// ExitInput feeds the sale-proceeds waterfall. The schedule is the completed
// annual waterfall; its final deficits and profit history drive the middle
// tiers.
type ExitInput struct {
	ExitYearNOI    float64
	ExitCapRatePct float64
	LoanPayoff     float64

	BrokerPct      float64
	LegalPct       float64
	DispositionPct float64

	Terms    waterfall.Terms
	Schedule waterfall.Schedule
	Splitter ResidualSplitter
}

// ExitResult is the full exit-proceeds breakdown by tier and party.
type ExitResult struct {
	SalePrice           float64
	SaleCosts           float64
	LoanPayoff          float64
	GrossEquityProceeds float64

	// Tier 1: return of capital. Negative when the sale does not cover
	// invested equity; the shortfall lands here pro-rata.
	CapitalReturned float64
	LPCapitalReturn float64
	GPCapitalReturn float64

	// Tier 2: carried preference deficit, paid pro-rata by deficit share.
	PrefDeficitPaid float64
	LPPrefCatchup   float64
	GPPrefCatchup   float64

	// Tier 3: GP catch-up against annual profit history.
	GPExitCatchup float64

	// Tier 4: residual split.
	LPResidual   float64
	GPResidual   float64
	ResidualNote string

	LPTotal float64
	GPTotal float64
}

// SplitterFor builds the residual-split policy the deal configures.
func SplitterFor(in *models.DealInputs) ResidualSplitter {
	switch in.Promote {
	case models.PromoteIRR:
		return IRRPromote{
			HurdlePct:      in.PromoteHurdle,
			GPPromotePct:   in.GPPromoteShare,
			BaseGPSharePct: in.GPProfitShare,
		}
	case models.PromoteLPCap:
		return LPCap{CapPct: in.LPIRRCap, BaseGPSharePct: in.GPProfitShare}
	default:
		return BaseSplit{GPSharePct: in.GPProfitShare}
	}
}

// ComputeExit prices the sale off exit-year NOI and runs the proceeds
// through the four exit tiers in order.
func ComputeExit(in ExitInput) ExitResult {
	r := ExitResult{LoanPayoff: in.LoanPayoff}

	r.SalePrice = in.ExitYearNOI / (in.ExitCapRatePct / 100)
	r.SaleCosts = r.SalePrice * (in.BrokerPct + in.LegalPct + in.DispositionPct) / 100
	r.GrossEquityProceeds = r.SalePrice - in.LoanPayoff - r.SaleCosts

	totalEquity := in.Terms.TotalEquity()

	// Tier 1: return of capital pro-rata by contribution, capped at the
	// total invested. A negative figure is a loss of capital, not an error.
	r.CapitalReturned = r.GrossEquityProceeds
	if totalEquity < r.CapitalReturned {
		r.CapitalReturned = totalEquity
	}
	if totalEquity > 0 {
		r.LPCapitalReturn = r.CapitalReturned * (in.Terms.LPEquity / totalEquity)
		r.GPCapitalReturn = r.CapitalReturned * (in.Terms.GPEquity / totalEquity)
	}
	remaining := r.GrossEquityProceeds - totalEquity
	if remaining < 0 {
		remaining = 0
	}

	// Tier 2: pay down carried preference, pro-rata by each party's share
	// of the deficit.
	totalDeficit := in.Schedule.FinalLPDeficit + in.Schedule.FinalGPDeficit
	r.PrefDeficitPaid = remaining
	if totalDeficit < r.PrefDeficitPaid {
		r.PrefDeficitPaid = totalDeficit
	}
	if totalDeficit > 0 {
		r.LPPrefCatchup = r.PrefDeficitPaid * (in.Schedule.FinalLPDeficit / totalDeficit)
		r.GPPrefCatchup = r.PrefDeficitPaid * (in.Schedule.FinalGPDeficit / totalDeficit)
	}
	remaining -= r.PrefDeficitPaid

	// Tier 3: true up GP to its profit share of all annual profit-tier
	// distributions (splits plus catch-ups, excluding pref).
	if in.Terms.IncludeCatchup && remaining > 0 && in.Terms.GPProfitShare > 0 {
		target := in.Schedule.TotalSplitProfits * in.Terms.GPProfitShare / 100
		needed := target - in.Schedule.GPAnnualProfits
		if needed < 0 {
			needed = 0
		}
		if needed > remaining {
			needed = remaining
		}
		r.GPExitCatchup = needed
		remaining -= needed
	}

	// Tier 4: residual under the configured policy.
	ctx := SplitContext{
		LPEquity:    in.Terms.LPEquity,
		GPEquity:    in.Terms.GPEquity,
		GrossEquity: r.GrossEquityProceeds,
		LPExitFixed: r.LPCapitalReturn + r.LPPrefCatchup,
	}
	ctx.YearTotals = make([]float64, len(in.Schedule.Years))
	ctx.LPAnnual = make([]float64, len(in.Schedule.Years))
	for i, y := range in.Schedule.Years {
		ctx.YearTotals[i] = y.LPTotal + y.GPTotal
		ctx.LPAnnual[i] = y.LPTotal
	}
	if in.Splitter != nil && remaining > 0 {
		r.LPResidual, r.GPResidual, r.ResidualNote = in.Splitter.Split(remaining, ctx)
	}

	r.LPTotal = r.LPCapitalReturn + r.LPPrefCatchup + r.LPResidual
	r.GPTotal = r.GPCapitalReturn + r.GPPrefCatchup + r.GPExitCatchup + r.GPResidual
	return r
}
