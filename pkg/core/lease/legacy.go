package lease

import (
	"fmt"
	"math"

	"cre_underwriting/pkg/models"
)

// SingleLeaseParams drives the legacy single-tenant projection.
type SingleLeaseParams struct {
	BaseRent      float64
	Structure     models.EscalationType
	BumpFrequency int
	BumpPct       float64
	Escalator     float64

	// CurrentTermRemaining is the number of years left on the current term
	// at acquisition; it only affects the status label.
	CurrentTermRemaining int

	// YearsElapsed is years since the original lease commencement, used to
	// align future bump dates.
	YearsElapsed int
}

// ProjectSingleLease is the legacy single-tenant NOI projection.
//
// It differs from the multi-tenant path in how fixed bumps are dated: the
// base rent here is what the tenant pays RIGHT NOW at acquisition (year 1 ==
// BaseRent), so bumps that already fired on the original timeline are
// subtracted out and only bumps crossed AFTER acquisition raise the rent:
//
//	alreadyFired = YearsElapsed / freq
//	totalAtYear  = (YearsElapsed + year − 1) / freq
//	rent         = base × (1+bump)^(totalAtYear − alreadyFired)
//
// The multi-tenant path instead exponentiates the total bump count, and its
// annual-escalator path compounds over the full original timeline while this
// one compounds from year 1. The two formulas produce different numbers for
// a tenant with YearsElapsed > 0 and are intentionally kept separate;
// unifying them would silently change historical projections.
func ProjectSingleLease(p SingleLeaseParams, years int) []NOIYear {
	bumpsAlreadyFired := 0
	if p.Structure == models.EscalationFixedBumps && p.BumpFrequency > 0 {
		bumpsAlreadyFired = p.YearsElapsed / p.BumpFrequency
	}

	schedule := make([]NOIYear, 0, years)
	for year := 1; year <= years; year++ {
		var noi float64
		switch {
		case p.Structure == models.EscalationFixedBumps && p.BumpFrequency > 0:
			totalBumps := (p.YearsElapsed + year - 1) / p.BumpFrequency
			incremental := totalBumps - bumpsAlreadyFired
			noi = p.BaseRent * math.Pow(1+p.BumpPct/100, float64(incremental))
		case p.Structure == models.EscalationAnnual:
			noi = p.BaseRent * math.Pow(1+p.Escalator/100, float64(year-1))
		default:
			noi = p.BaseRent
		}

		status := "Current Term"
		if year > p.CurrentTermRemaining {
			status = fmt.Sprintf("Renewal Year %d", year-p.CurrentTermRemaining)
		}

		schedule = append(schedule, NOIYear{Year: year, NOI: noi, Status: status})
	}
	return schedule
}

// ProjectCompoundGrowth projects NOI with simple compound rent growth from a
// year-1 figure. Kept for quick top-down screens where lease terms are not
// yet known.
func ProjectCompoundGrowth(year1NOI, growthRatePct float64, years int) []NOIYear {
	schedule := make([]NOIYear, 0, years)
	for year := 1; year <= years; year++ {
		noi := year1NOI * math.Pow(1+growthRatePct/100, float64(year-1))
		schedule = append(schedule, NOIYear{Year: year, NOI: noi, Status: "Current Term"})
	}
	return schedule
}

// SpliceRenegotiation stitches a renegotiated lease into a projection: years
// before the renegotiation year come from the pre schedule, the remainder is
// projected fresh from the new terms with its year index shifted.
func SpliceRenegotiation(pre SingleLeaseParams, r models.Renegotiation, holdingPeriod int) []NOIYear {
	if !r.Enabled || r.Year > holdingPeriod {
		return ProjectSingleLease(pre, holdingPeriod)
	}

	head := ProjectSingleLease(pre, r.Year-1)
	post := ProjectSingleLease(SingleLeaseParams{
		BaseRent:             r.NewRent,
		Structure:            r.NewStructure,
		BumpFrequency:        r.BumpFrequency,
		BumpPct:              r.BumpPct,
		Escalator:            r.Escalator,
		CurrentTermRemaining: r.NewTerm,
		YearsElapsed:         0,
	}, holdingPeriod-(r.Year-1))

	for i := range post {
		post[i].Year += r.Year - 1
	}
	return append(head, post...)
}
