// Package waterfall allocates annual distributable cash between LP and GP
// through preferred-return, catch-up, and residual-split tiers, carrying
// unpaid preference forward as a deficit.
package waterfall

// Terms are the investor-structure parameters the waterfall runs under.
// They are fixed for the life of the deal.
type Terms struct {
	LPEquity       float64
	GPEquity       float64
	PrefRatePct    float64 // preferred return, % of equity per year
	GPProfitShare  float64 // GP share of post-pref profits, %
	IncludeCatchup bool
}

// TotalEquity returns combined invested equity.
func (t Terms) TotalEquity() float64 {
	return t.LPEquity + t.GPEquity
}

// State is the cross-year carry: unpaid preference owed to each party.
// Deficits never go negative.
type State struct {
	LPDeficit float64
	GPDeficit float64
}

// YearResult is one year of the distribution waterfall.
type YearResult struct {
	Year          int
	CashAvailable float64

	// Tier 1: preferred return.
	LPPrefCurrent float64
	GPPrefCurrent float64
	LPPrefOwed    float64 // current + carried deficit
	GPPrefOwed    float64
	LPPrefPaid    float64
	GPPrefPaid    float64

	// Tier 2: GP catch-up.
	GPCatchup float64

	// Tier 3: residual split.
	LPSplit float64
	GPSplit float64

	LPTotal float64
	GPTotal float64

	// Deficits rolled forward into the next year.
	LPDeficit float64
	GPDeficit float64

	// Running cumulative distributions, filled in by Run.
	LPCumulative float64
	GPCumulative float64
}

// DistributeYear runs one year of the waterfall and advances the carried
// state. Preference is paid pro-rata by amount owed, not by equity share,
// so a party with a larger carried deficit absorbs more of a short year.
func DistributeYear(t Terms, s *State, year int, cashAvailable float64) YearResult {
	r := YearResult{Year: year, CashAvailable: cashAvailable}

	r.LPPrefCurrent = t.LPEquity * t.PrefRatePct / 100
	r.GPPrefCurrent = t.GPEquity * t.PrefRatePct / 100
	r.LPPrefOwed = r.LPPrefCurrent + s.LPDeficit
	r.GPPrefOwed = r.GPPrefCurrent + s.GPDeficit
	totalOwed := r.LPPrefOwed + r.GPPrefOwed

	remaining := cashAvailable

	if remaining > 0 && totalOwed > 0 {
		payment := remaining
		if totalOwed < payment {
			payment = totalOwed
		}
		r.LPPrefPaid = payment * (r.LPPrefOwed / totalOwed)
		r.GPPrefPaid = payment * (r.GPPrefOwed / totalOwed)
		remaining -= payment
	}

	r.LPDeficit = r.LPPrefOwed - r.LPPrefPaid
	r.GPDeficit = r.GPPrefOwed - r.GPPrefPaid

	if t.IncludeCatchup && remaining > 0 && t.GPProfitShare > 0 && t.GPProfitShare < 100 {
		// Solve for the catch-up that brings GP's pref-plus-catchup to its
		// profit share of everything distributed so far:
		//   gpPref + c = share * (lpPref + gpPref + c)
		share := t.GPProfitShare / 100
		prefPaid := r.LPPrefPaid + r.GPPrefPaid
		target := share*prefPaid/(1-share) - r.GPPrefPaid
		if target < 0 {
			target = 0
		}
		if target > remaining {
			target = remaining
		}
		r.GPCatchup = target
		remaining -= target
	}

	if remaining > 0 {
		r.LPSplit = remaining * (100 - t.GPProfitShare) / 100
		r.GPSplit = remaining * t.GPProfitShare / 100
	}

	r.LPTotal = r.LPPrefPaid + r.LPSplit
	r.GPTotal = r.GPPrefPaid + r.GPCatchup + r.GPSplit

	s.LPDeficit = r.LPDeficit
	s.GPDeficit = r.GPDeficit
	return r
}

// Schedule is the full multi-year waterfall plus the aggregates the exit
// waterfall needs: final deficits and the split-profit history that drives
// the GP exit catch-up.
type Schedule struct {
	Years []YearResult

	LPTotal float64
	GPTotal float64

	FinalLPDeficit float64
	FinalGPDeficit float64

	// Profit tiers only (splits and catch-up, excluding pref), used by
	// the exit catch-up to true up GP's share of annual profits.
	TotalSplitProfits float64
	GPAnnualProfits   float64
}

// Run distributes each year's cash in sequence. cashByYear[i] is the cash
// available in hold year i+1.
func Run(t Terms, cashByYear []float64) Schedule {
	var (
		s     State
		sched Schedule
	)
	sched.Years = make([]YearResult, 0, len(cashByYear))
	for i, cash := range cashByYear {
		r := DistributeYear(t, &s, i+1, cash)
		sched.LPTotal += r.LPTotal
		sched.GPTotal += r.GPTotal
		r.LPCumulative = sched.LPTotal
		r.GPCumulative = sched.GPTotal
		sched.TotalSplitProfits += r.LPSplit + r.GPSplit + r.GPCatchup
		sched.GPAnnualProfits += r.GPSplit + r.GPCatchup
		sched.Years = append(sched.Years, r)
	}
	sched.FinalLPDeficit = s.LPDeficit
	sched.FinalGPDeficit = s.GPDeficit
	return sched
}
