// Package returns computes deal and investor return metrics: IRR, NPV,
// equity multiples, and the exit-proceeds waterfall with its promote and
// return-cap overlays.
package returns

import "math"

// NPV evaluates sum(cf[t] / (1+rate)^t) over an annual series where index 0
// is the time-zero investment (negative by convention).
func NPV(rate float64, cashflows []float64) float64 {
	var v float64
	for t, cf := range cashflows {
		v += cf / math.Pow(1+rate, float64(t))
	}
	return v
}

// IRR solves the internal rate of return of an annual cash-flow series by
// bisection over [-50%, +500%], 200 iterations or convergence to
// |NPV| < 0.01. Returns nil when the IRR is undefined: if the flows after
// year 0 sum to zero or less there is no recoverable return to solve for.
func IRR(cashflows []float64) *float64 {
	if len(cashflows) < 2 {
		return nil
	}
	var tail float64
	for _, cf := range cashflows[1:] {
		tail += cf
	}
	if tail <= 0 {
		return nil
	}

	low, high := -0.5, 5.0
	mid := (low + high) / 2
	for i := 0; i < 200; i++ {
		mid = (low + high) / 2
		v := NPV(mid, cashflows)
		if math.Abs(v) < 0.01 {
			break
		}
		if v > 0 {
			low = mid
		} else {
			high = mid
		}
	}
	return &mid
}

// EquityMultiple is total cash received over equity invested. Zero equity
// reports zero rather than dividing.
func EquityMultiple(totalReceived, equityInvested float64) float64 {
	if equityInvested <= 0 {
		return 0
	}
	return totalReceived / equityInvested
}
