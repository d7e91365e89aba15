// Package lease projects per-year rental income (NOI) from tenant lease
// terms, escalation rules, and renewal options.
package lease

import (
	"fmt"
	"math"
	"strings"

	"cre_underwriting/pkg/models"
)

// NOIYear is one row of a projected NOI schedule. Year starts at 1.
type NOIYear struct {
	Year   int
	NOI    float64
	Status string
}

// ProjectTenants aggregates every tenant's escalated rent for each year of
// the hold. A tenant past its term rolls into renewal-option windows; once
// options are exhausted it contributes nothing ("EXPIRED"). Vacant tenants
// contribute nothing for the whole horizon.
func ProjectTenants(tenants []models.Tenant, holdingPeriod int) []NOIYear {
	schedule := make([]NOIYear, 0, holdingPeriod)

	for year := 1; year <= holdingPeriod; year++ {
		totalRent := 0.0
		statuses := make([]string, 0, len(tenants))

		for _, t := range tenants {
			if t.Status == models.Vacant {
				statuses = append(statuses, fmt.Sprintf("%s: Vacant", t.Name))
				continue
			}

			if year > t.LeaseExpirationYear {
				yearsPast := year - t.LeaseExpirationYear
				optionNumber := (yearsPast-1)/maxInt(t.OptionTerm, 1) + 1
				if optionNumber > t.RenewalOptions {
					statuses = append(statuses, fmt.Sprintf("%s: EXPIRED", t.Name))
					continue
				}
				statuses = append(statuses, fmt.Sprintf("%s: Option %d", t.Name, optionNumber))
			} else {
				statuses = append(statuses, fmt.Sprintf("%s: Active", t.Name))
			}

			totalRent += tenantRentForYear(t, year)
		}

		status := "All Vacant"
		if len(statuses) > 0 {
			status = strings.Join(statuses, " | ")
		}
		schedule = append(schedule, NOIYear{Year: year, NOI: totalRent, Status: status})
	}

	return schedule
}

// tenantRentForYear applies the tenant's escalation rule to its base rent.
//
// The escalation clock runs from the ORIGINAL lease commencement, not from
// acquisition: yearsSinceStart = YearsElapsed + (year − 1). A tenant eight
// years into a lease with 5-year bumps therefore bumps again at the year
// where the original timeline crosses the next multiple of five.
func tenantRentForYear(t models.Tenant, year int) float64 {
	yearsSinceStart := t.YearsElapsed + year - 1

	switch t.Escalation {
	case models.EscalationFixedBumps:
		if t.BumpFrequency <= 0 {
			return t.AnnualRent
		}
		numBumps := yearsSinceStart / t.BumpFrequency
		return t.AnnualRent * math.Pow(1+t.BumpPercentage/100, float64(numBumps))
	case models.EscalationAnnual:
		return t.AnnualRent * math.Pow(1+t.AnnualEscalator/100, float64(yearsSinceStart))
	default: // flat
		return t.AnnualRent
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
