package returns

import (
	"fmt"
	"math"
)

// SplitContext carries everything a residual-split policy may need to
// decide the final tier of the exit waterfall.
type SplitContext struct {
	LPEquity    float64
	GPEquity    float64
	YearTotals  []float64 // LP + GP distribution per hold year
	LPAnnual    []float64 // LP distribution per hold year
	GrossEquity float64   // gross equity proceeds at exit, pre-split
	LPExitFixed float64   // LP capital return + pref catch-up already allocated
}

// ResidualSplitter decides how the last tier of exit proceeds divides
// between LP and GP. Implementations are pure; the note explains which
// branch applied.
type ResidualSplitter interface {
	Split(remaining float64, ctx SplitContext) (lp, gp float64, note string)
}

// BaseSplit divides the residual at the deal's standing profit share with
// no promote overlay.
type BaseSplit struct {
	GPSharePct float64
}

func (b BaseSplit) Split(remaining float64, _ SplitContext) (float64, float64, string) {
	lp := remaining * (100 - b.GPSharePct) / 100
	gp := remaining * b.GPSharePct / 100
	return lp, gp, fmt.Sprintf("Base %.0f/%.0f split", 100-b.GPSharePct, b.GPSharePct)
}

// IRRPromote applies an enhanced GP split when the whole-deal IRR clears a
// hurdle. The trigger is evaluated on the reconstructed deal cash flow with
// the gross exit proceeds folded into the final year: the split being
// decided cannot change the deal-level total, so the un-split figure is
// the right input.
type IRRPromote struct {
	HurdlePct      float64
	GPPromotePct   float64
	BaseGPSharePct float64
}

func (p IRRPromote) Split(remaining float64, ctx SplitContext) (float64, float64, string) {
	cfs := make([]float64, 0, len(ctx.YearTotals)+1)
	cfs = append(cfs, -(ctx.LPEquity + ctx.GPEquity))
	for i, total := range ctx.YearTotals {
		if i == len(ctx.YearTotals)-1 {
			total += ctx.GrossEquity
		}
		cfs = append(cfs, total)
	}
	dealIRR := IRR(cfs)

	if dealIRR != nil && *dealIRR*100 > p.HurdlePct {
		lp := remaining * (100 - p.GPPromotePct) / 100
		gp := remaining * p.GPPromotePct / 100
		return lp, gp, fmt.Sprintf("Promote triggered: deal IRR %.1f%% > %.1f%% hurdle", *dealIRR*100, p.HurdlePct)
	}
	lp := remaining * (100 - p.BaseGPSharePct) / 100
	gp := remaining * p.BaseGPSharePct / 100
	return lp, gp, fmt.Sprintf("Below %.1f%% hurdle: base split", p.HurdlePct)
}

// LPCap limits LP's levered IRR to a configured ceiling: residual dollars
// that would push LP past the cap flow entirely to GP. Inside the capped
// region the residual still splits at the base rate.
type LPCap struct {
	CapPct         float64
	BaseGPSharePct float64
}

func (c LPCap) Split(remaining float64, ctx SplitContext) (float64, float64, string) {
	lpIRRWith := func(lpResidual float64) *float64 {
		cfs := make([]float64, 0, len(ctx.LPAnnual)+1)
		cfs = append(cfs, -ctx.LPEquity)
		for i, cf := range ctx.LPAnnual {
			if i == len(ctx.LPAnnual)-1 {
				cf += ctx.LPExitFixed + lpResidual
			}
			cfs = append(cfs, cf)
		}
		return IRR(cfs)
	}

	target := c.CapPct / 100
	irrAll := lpIRRWith(remaining)
	irrNone := lpIRRWith(0)

	if irrAll != nil && *irrAll <= target {
		// Even the whole residual leaves LP under the cap.
		lp := remaining * (100 - c.BaseGPSharePct) / 100
		gp := remaining * c.BaseGPSharePct / 100
		return lp, gp, fmt.Sprintf("Cap not reached (LP IRR %.1f%% <= %.1f%%): base split", *irrAll*100, c.CapPct)
	}
	if irrNone != nil && *irrNone >= target {
		// LP is at or past the cap before any residual.
		return 0, remaining, fmt.Sprintf("LP already at %.1f%% cap: residual to GP", c.CapPct)
	}

	// Bisect the LP residual that lands LP exactly on the cap.
	low, high := 0.0, remaining
	mid := (low + high) / 2
	for i := 0; i < 200; i++ {
		mid = (low + high) / 2
		irr := lpIRRWith(mid)
		if irr == nil {
			low = mid
			continue
		}
		if math.Abs(*irr-target) < 0.0001 {
			break
		}
		if *irr < target {
			low = mid
		} else {
			high = mid
		}
	}

	// LP's capped residual implies a base-split chunk; GP takes its base
	// share of that chunk plus everything above it.
	var baseChunk float64
	if c.BaseGPSharePct < 100 {
		baseChunk = mid / ((100 - c.BaseGPSharePct) / 100)
	}
	gpBase := baseChunk - mid
	aboveCap := remaining - baseChunk
	return mid, gpBase + aboveCap, fmt.Sprintf("LP capped at %.1f%% IRR", c.CapPct)
}
