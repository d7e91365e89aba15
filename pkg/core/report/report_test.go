package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"cre_underwriting/pkg/core/pipeline"
	"cre_underwriting/pkg/core/report"
	"cre_underwriting/pkg/models"
)

func TestDollars(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{1234567.89, "$1,234,568"},
		{250000, "$250,000"},
		{-450000, "-$450,000"},
		{-999.4, "-$999"},
	}
	for _, c := range cases {
		if got := report.Dollars(c.in); got != c.want {
			t.Errorf("Dollars(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPctAndMultiple(t *testing.T) {
	if got := report.Pct(6.5); got != "6.5%" {
		t.Errorf("Pct(6.5) = %q", got)
	}
	if got := report.Pct(-2.25); got != "-2.2%" {
		t.Errorf("Pct(-2.25) = %q", got)
	}
	if got := report.Multiple(1.254); got != "1.25x" {
		t.Errorf("Multiple(1.254) = %q", got)
	}

	irr := 0.1234
	if got := report.PctPtr(&irr); got != "12.3%" {
		t.Errorf("PctPtr(0.1234) = %q", got)
	}
	if got := report.PctPtr(nil); got != "N/A" {
		t.Errorf("PctPtr(nil) = %q", got)
	}
}

func fixedBuilder() *report.Builder {
	b := report.NewBuilder()
	b.Now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	}
	return b
}

func reportDeal() *models.DealInputs {
	return &models.DealInputs{
		Strategy:          models.StrategyBuyAndHold,
		HoldingPeriod:     5,
		DealName:          "Maple Plaza Acquisition",
		PropertyName:      "Maple Plaza",
		PropertyCityState: "Austin, TX",
		PropertyType:      "Retail",
		TenantName:        "Maple Grocers",
		PurchasePrice:     5000000,
		Tenants: []models.Tenant{{
			Name:                "Maple Grocers",
			AnnualRent:          250000,
			LeaseExpirationYear: 7,
			Escalation:          models.EscalationFlat,
			Status:              models.Occupied,
		}},
		PermRate:        6.0,
		PermAmort:       25,
		PermLTV:         75,
		TargetDSCR:      1.25,
		UseConservative: true,
		LPEquityPct:     80,
		PrefRate:        8,
		GPProfitShare:   20,
		ExitCapRate:     6.5,
	}
}

func runReportDeal(t *testing.T) *pipeline.Result {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	res, err := pipeline.NewRunner(log).Run(reportDeal())
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestMarkdown_LPReport(t *testing.T) {
	res := runReportDeal(t)
	md, err := fixedBuilder().Markdown(report.VariantLP, res)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"# Maple Plaza Acquisition",
		"**LP Investment Summary**",
		"_Generated 2026-03-14_",
		"## Deal Overview",
		"- **Property:** Maple Plaza",
		"- **Location:** Austin, TX",
		"- **Purchase Price:** $5,000,000",
		"- **Preferred Return:** 8.0%",
		"## Annual Cash Distributions",
		"| Year | Distribution | Cash-on-Cash |",
		"## Total Returns",
		"## Key Metrics",
		"- **LP IRR:** ",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("LP report missing %q", want)
		}
	}

	// One distribution row per hold year.
	if got := strings.Count(md, "| 1 |")+strings.Count(md, "| 5 |"); got < 2 {
		t.Errorf("LP report missing first or last distribution year:\n%s", md)
	}

	// The LP report never discloses GP economics.
	if strings.Contains(md, "GP Equity") || strings.Contains(md, "GP IRR") {
		t.Error("LP report leaks GP economics")
	}
}

func TestMarkdown_LPReport_PromoteTerms(t *testing.T) {
	in := reportDeal()
	in.Promote = models.PromoteIRR
	in.PromoteHurdle = 15
	in.GPPromoteShare = 30

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	res, err := pipeline.NewRunner(log).Run(in)
	if err != nil {
		t.Fatal(err)
	}

	md, err := fixedBuilder().Markdown(report.VariantLP, res)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "- **Hurdle IRR:** 15.0%") {
		t.Error("promote hurdle missing from LP report")
	}
	if !strings.Contains(md, "- **GP Share Above Hurdle:** 30.0%") {
		t.Error("promote share missing from LP report")
	}
}

func TestMarkdown_GPReport(t *testing.T) {
	res := runReportDeal(t)
	md, err := fixedBuilder().Markdown(report.VariantGP, res)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"**GP Deal Analysis**",
		"## Sources & Uses",
		"| Loan | " + report.Dollars(res.Financing.InitialLoanAmount) + " |",
		"| LP Equity | " + report.Dollars(res.Financing.LPEquity) + " |",
		"| GP Equity | " + report.Dollars(res.Financing.GPEquity) + " |",
		"## Cash Flow Projections",
		"## Waterfall Distributions",
		"| Year | LP Pref | GP Pref | LP Split | GP Split | LP Total | GP Total |",
		"## Exit & Total Returns",
		"## Return Metrics",
		"- **Deal IRR:** ",
		"- **GP Equity Multiple:** ",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("GP report missing %q", want)
		}
	}
}

func TestMarkdown_LenderReport(t *testing.T) {
	res := runReportDeal(t)
	md, err := fixedBuilder().Markdown(report.VariantLender, res)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"**Lender Presentation**",
		"## Property Summary",
		"- **Property Type:** Retail",
		"## Loan Terms",
		"- **Loan Type:** Permanent Loan",
		"- **Interest Rate:** 6.0%",
		"- **Amortization:** 25 years",
		"- **Target DSCR:** 1.25x",
		"## Debt Coverage Analysis",
		"**Minimum DSCR across hold: ",
		"## Exit / Payoff Summary",
		"- **Exit Cap Rate:** 6.5%",
		"- **Sale Price:** " + report.Dollars(res.Exit.SalePrice),
	} {
		if !strings.Contains(md, want) {
			t.Errorf("lender report missing %q", want)
		}
	}

	// Equity split is partnership business, not the lender's.
	if strings.Contains(md, "Waterfall") || strings.Contains(md, "LP Pref") {
		t.Error("lender report leaks waterfall detail")
	}
}

func TestMarkdown_BridgeLenderReport(t *testing.T) {
	in := reportDeal()
	in.Strategy = models.StrategyBridgeToPerm
	in.BridgeLTV = 70
	in.BridgeRate = 8.5
	in.BridgeTerm = 3
	in.BridgeIO = true
	in.RefiYear = 3
	in.RefiValuation = models.ValuationCapRate
	in.RefiCapRate = 6.0

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	res, err := pipeline.NewRunner(log).Run(in)
	if err != nil {
		t.Fatal(err)
	}

	md, err := fixedBuilder().Markdown(report.VariantLender, res)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"- **Loan Type:** Bridge Loan",
		"- **Interest Rate:** 8.5%",
		"- **Structure:** Interest Only",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("bridge lender report missing %q", want)
		}
	}
}

func TestMarkdown_UnknownVariant(t *testing.T) {
	res := runReportDeal(t)
	if _, err := fixedBuilder().Markdown(report.Variant("board"), res); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestHTML(t *testing.T) {
	res := runReportDeal(t)
	out, err := fixedBuilder().HTML(report.VariantGP, res)
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Maple Plaza Acquisition</title>",
		"<h1>Maple Plaza Acquisition</h1>",
		"<table>",
		"</body>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestWorkbook(t *testing.T) {
	res := runReportDeal(t)
	f, err := report.Workbook(res)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Cash Flow": true, "Waterfall": true, "Debt": true, "Returns": true}
	if len(sheets) != len(want) {
		t.Fatalf("sheet list %v, want exactly %d sheets", sheets, len(want))
	}
	for _, s := range sheets {
		if !want[s] {
			t.Errorf("unexpected sheet %q", s)
		}
	}

	// Header row and one data row per hold year on the cash flow sheet.
	rows, err := f.GetRows("Cash Flow")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(res.Cashflows)+1 {
		t.Fatalf("cash flow sheet has %d rows, want %d", len(rows), len(res.Cashflows)+1)
	}
	if rows[0][0] != "Year" || rows[0][2] != "NOI" {
		t.Errorf("unexpected cash flow header: %v", rows[0])
	}

	cell, err := f.GetCellValue("Returns", "A7")
	if err != nil {
		t.Fatal(err)
	}
	if cell != "Profit / (Loss)" {
		t.Errorf("Returns!A7 = %q, want profit row label", cell)
	}
}
