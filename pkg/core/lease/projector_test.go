package lease_test

import (
	"math"
	"strings"
	"testing"

	"cre_underwriting/pkg/core/lease"
	"cre_underwriting/pkg/models"
)

func approx(t *testing.T, got, want, tol float64, label string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.4f, want %.4f", label, got, want)
	}
}

func occupiedTenant() models.Tenant {
	return models.Tenant{
		Name:                "Tenant 1",
		SquareFeet:          10000,
		AnnualRent:          100000,
		LeaseExpirationYear: 10,
		YearsElapsed:        0,
		RenewalOptions:      2,
		OptionTerm:          5,
		Escalation:          models.EscalationFixedBumps,
		BumpFrequency:       5,
		BumpPercentage:      10.0,
		Status:              models.Occupied,
	}
}

func TestProjectTenants_FixedBumps(t *testing.T) {
	// 10% bump every 5 years, zero years elapsed at acquisition:
	// years 1-5 sit below the first bump boundary, year 6 crosses it.
	sched := lease.ProjectTenants([]models.Tenant{occupiedTenant()}, 7)

	for y := 0; y < 5; y++ {
		approx(t, sched[y].NOI, 100000, 0.01, "pre-bump year")
	}
	approx(t, sched[5].NOI, 110000, 0.01, "year 6 after one bump")
	approx(t, sched[6].NOI, 110000, 0.01, "year 7 still one bump")
}

func TestProjectTenants_BumpClockRunsFromCommencement(t *testing.T) {
	// 8 years into the lease: yearsSinceStart = 8 in projection year 1, so
	// one bump has already compounded into the projected rent and the next
	// fires when the original timeline crosses year 10 (projection year 3).
	tn := occupiedTenant()
	tn.YearsElapsed = 8
	sched := lease.ProjectTenants([]models.Tenant{tn}, 3)

	approx(t, sched[0].NOI, 110000, 0.01, "year 1")
	approx(t, sched[1].NOI, 110000, 0.01, "year 2")
	approx(t, sched[2].NOI, 121000, 0.01, "year 3 second bump")
}

func TestProjectTenants_AnnualEscalator(t *testing.T) {
	tn := occupiedTenant()
	tn.Escalation = models.EscalationAnnual
	tn.AnnualEscalator = 2.0
	tn.YearsElapsed = 3
	sched := lease.ProjectTenants([]models.Tenant{tn}, 2)

	// Escalator compounds over the full original timeline.
	approx(t, sched[0].NOI, 100000*math.Pow(1.02, 3), 0.01, "year 1")
	approx(t, sched[1].NOI, 100000*math.Pow(1.02, 4), 0.01, "year 2")
}

func TestProjectTenants_OptionsAndExpiration(t *testing.T) {
	tn := occupiedTenant()
	tn.Escalation = models.EscalationFlat
	tn.LeaseExpirationYear = 2
	tn.RenewalOptions = 1
	tn.OptionTerm = 3
	sched := lease.ProjectTenants([]models.Tenant{tn}, 7)

	if !strings.Contains(sched[1].Status, "Active") {
		t.Errorf("year 2 should be in term, got %q", sched[1].Status)
	}
	if !strings.Contains(sched[2].Status, "Option 1") {
		t.Errorf("year 3 should be option 1, got %q", sched[2].Status)
	}
	if !strings.Contains(sched[4].Status, "Option 1") {
		t.Errorf("year 5 is the option's last year, got %q", sched[4].Status)
	}
	if !strings.Contains(sched[5].Status, "EXPIRED") {
		t.Errorf("year 6 should be expired, got %q", sched[5].Status)
	}
	approx(t, sched[4].NOI, 100000, 0.01, "option year rent")
	approx(t, sched[5].NOI, 0, 0.01, "expired year rent")
}

func TestProjectTenants_VacantAndAggregate(t *testing.T) {
	occ := occupiedTenant()
	occ.Escalation = models.EscalationFlat
	vac := models.Tenant{Name: "Suite B", Status: models.Vacant}

	sched := lease.ProjectTenants([]models.Tenant{occ, vac}, 3)
	approx(t, sched[0].NOI, 100000, 0.01, "vacant contributes nothing")
	if !strings.Contains(sched[0].Status, "Suite B: Vacant") {
		t.Errorf("status should carry the vacant label, got %q", sched[0].Status)
	}

	allVacant := lease.ProjectTenants([]models.Tenant{vac}, 2)
	if allVacant[0].NOI != 0 {
		t.Errorf("all-vacant NOI should be zero, got %.2f", allVacant[0].NOI)
	}
	// A lone vacant tenant still reports its label, not "All Vacant".
	if allVacant[0].Status != "Suite B: Vacant" {
		t.Errorf("unexpected status %q", allVacant[0].Status)
	}

	empty := lease.ProjectTenants(nil, 2)
	if empty[0].Status != "All Vacant" {
		t.Errorf("empty tenancy should report All Vacant, got %q", empty[0].Status)
	}
}

func TestProjectTenants_YearIndexMonotonic(t *testing.T) {
	sched := lease.ProjectTenants([]models.Tenant{occupiedTenant()}, 10)
	for i, row := range sched {
		if row.Year != i+1 {
			t.Fatalf("row %d has year %d", i, row.Year)
		}
	}
}
