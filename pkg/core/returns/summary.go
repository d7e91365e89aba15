package returns

import "cre_underwriting/pkg/core/waterfall"

// PartyReturn rolls up one investor's outcome across annual distributions
// and exit.
type PartyReturn struct {
	EquityInvested float64
	AnnualTotal    float64
	ExitTotal      float64
	TotalReceived  float64
	Profit         float64
	IRR            *float64 // nil when undefined
	EquityMultiple float64
	Cashflows      []float64 // year 0 investment through exit year
	CoCByYear      []float64 // annual distribution / equity, %
	ExitCoC        float64
}

// Summary is the combined LP / GP / deal-level return picture.
type Summary struct {
	LP   PartyReturn
	GP   PartyReturn
	Deal PartyReturn
}

// Summarize builds LP, GP, and deal-level cash-flow streams from the annual
// waterfall and exit breakdown, then solves IRR and equity multiple for
// each. Exit proceeds fold into the final hold year, matching a year-end
// sale.
func Summarize(terms waterfall.Terms, sched waterfall.Schedule, exit ExitResult) Summary {
	n := len(sched.Years)

	lp := PartyReturn{EquityInvested: terms.LPEquity, ExitTotal: exit.LPTotal}
	gp := PartyReturn{EquityInvested: terms.GPEquity, ExitTotal: exit.GPTotal}

	lp.Cashflows = make([]float64, 0, n+1)
	gp.Cashflows = make([]float64, 0, n+1)
	lp.Cashflows = append(lp.Cashflows, -terms.LPEquity)
	gp.Cashflows = append(gp.Cashflows, -terms.GPEquity)
	lp.CoCByYear = make([]float64, n)
	gp.CoCByYear = make([]float64, n)

	for i, y := range sched.Years {
		lpCF, gpCF := y.LPTotal, y.GPTotal
		lp.AnnualTotal += lpCF
		gp.AnnualTotal += gpCF
		if terms.LPEquity > 0 {
			lp.CoCByYear[i] = lpCF / terms.LPEquity * 100
		}
		if terms.GPEquity > 0 {
			gp.CoCByYear[i] = gpCF / terms.GPEquity * 100
		}
		if i == n-1 {
			lpCF += exit.LPTotal
			gpCF += exit.GPTotal
		}
		lp.Cashflows = append(lp.Cashflows, lpCF)
		gp.Cashflows = append(gp.Cashflows, gpCF)
	}
	if terms.LPEquity > 0 {
		lp.ExitCoC = exit.LPTotal / terms.LPEquity * 100
	}
	if terms.GPEquity > 0 {
		gp.ExitCoC = exit.GPTotal / terms.GPEquity * 100
	}

	finish := func(p *PartyReturn) {
		p.TotalReceived = p.AnnualTotal + p.ExitTotal
		p.Profit = p.TotalReceived - p.EquityInvested
		p.IRR = IRR(p.Cashflows)
		p.EquityMultiple = EquityMultiple(p.TotalReceived, p.EquityInvested)
	}
	finish(&lp)
	finish(&gp)

	deal := PartyReturn{EquityInvested: terms.TotalEquity()}
	deal.Cashflows = make([]float64, len(lp.Cashflows))
	for i := range lp.Cashflows {
		deal.Cashflows[i] = lp.Cashflows[i] + gp.Cashflows[i]
	}
	deal.AnnualTotal = lp.AnnualTotal + gp.AnnualTotal
	deal.ExitTotal = lp.ExitTotal + gp.ExitTotal
	finish(&deal)

	return Summary{LP: lp, GP: gp, Deal: deal}
}
