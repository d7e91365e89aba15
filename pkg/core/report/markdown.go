package report

import (
	"fmt"
	"strings"
	"time"

	"cre_underwriting/pkg/core/pipeline"
	"cre_underwriting/pkg/models"
)

// Variant names the report audiences.
type Variant string

const (
	VariantLP     Variant = "lp"
	VariantGP     Variant = "gp"
	VariantLender Variant = "lender"
)

// Builder renders one underwriting result into report documents. The clock
// is injectable for stable test output.
type Builder struct {
	Now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{Now: time.Now}
}

// Markdown renders the named report variant.
func (b *Builder) Markdown(v Variant, res *pipeline.Result) (string, error) {
	switch v {
	case VariantLP:
		return b.lpReport(res), nil
	case VariantGP:
		return b.gpReport(res), nil
	case VariantLender:
		return b.lenderReport(res), nil
	default:
		return "", fmt.Errorf("unknown report variant %q", v)
	}
}

func (b *Builder) heading(md *strings.Builder, res *pipeline.Result, subtitle string) {
	deal := res.Inputs.DealName
	if deal == "" {
		deal = "Deal"
	}
	fmt.Fprintf(md, "# %s\n\n**%s**\n\n_Generated %s_\n\n", deal, subtitle, b.Now().Format("2006-01-02"))
}

func dealOverview(md *strings.Builder, in *models.DealInputs) {
	md.WriteString("## Deal Overview\n\n")
	property := in.PropertyName
	if property == "" {
		property = in.PropertyAddress
	}
	if property == "" {
		property = "N/A"
	}
	kv(md, "Property", property)
	kv(md, "Location", in.PropertyCityState)
	kv(md, "Tenant", in.TenantName)
	kv(md, "Purchase Price", Dollars(in.PurchasePrice))
	kv(md, "Hold Period", fmt.Sprintf("%d years", in.HoldingPeriod))
	kv(md, "Strategy", string(in.Strategy))
	md.WriteString("\n")
}

func kv(md *strings.Builder, label, value string) {
	fmt.Fprintf(md, "- **%s:** %s\n", label, value)
}

func tableHeader(md *strings.Builder, cols ...string) {
	md.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	md.WriteString("| " + strings.Join(seps, " | ") + " |\n")
}

func tableRow(md *strings.Builder, cells ...string) {
	md.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}

func (b *Builder) lpReport(res *pipeline.Result) string {
	in := res.Inputs
	var md strings.Builder
	b.heading(&md, res, "LP Investment Summary")
	dealOverview(&md, in)

	md.WriteString("## Your Investment\n\n")
	kv(&md, "Equity Invested", Dollars(res.Financing.LPEquity))
	kv(&md, "Preferred Return", Pct(in.PrefRate))
	kv(&md, "Promote / Cap", string(in.Promote))
	switch in.Promote {
	case models.PromoteIRR:
		kv(&md, "Hurdle IRR", Pct(in.PromoteHurdle))
		kv(&md, "GP Share Above Hurdle", Pct(in.GPPromoteShare))
	case models.PromoteLPCap:
		kv(&md, "LP IRR Cap", Pct(in.LPIRRCap))
	}
	md.WriteString("\n## Annual Cash Distributions\n\n")
	tableHeader(&md, "Year", "Distribution", "Cash-on-Cash")
	for i, w := range res.Waterfall.Years {
		tableRow(&md, fmt.Sprintf("%d", w.Year), Dollars(w.LPTotal), Pct(res.Returns.LP.CoCByYear[i]))
	}

	lp := res.Returns.LP
	md.WriteString("\n## Total Returns\n\n")
	tableHeader(&md, "", "Amount")
	tableRow(&md, "Annual Distributions", Dollars(lp.AnnualTotal))
	tableRow(&md, "Exit Proceeds", Dollars(lp.ExitTotal))
	tableRow(&md, "**Total Cash Received**", Dollars(lp.TotalReceived))
	tableRow(&md, "Equity Invested", Dollars(lp.EquityInvested))
	tableRow(&md, "**Profit / (Loss)**", Dollars(lp.Profit))

	md.WriteString("\n## Key Metrics\n\n")
	kv(&md, "LP IRR", PctPtr(lp.IRR))
	kv(&md, "Equity Multiple", Multiple(lp.EquityMultiple))
	if lp.EquityInvested > 0 && in.HoldingPeriod > 0 {
		avg := lp.AnnualTotal / lp.EquityInvested / float64(in.HoldingPeriod) * 100
		kv(&md, "Avg Annual CoC", Pct(avg))
	}
	return md.String()
}

func (b *Builder) gpReport(res *pipeline.Result) string {
	in := res.Inputs
	var md strings.Builder
	b.heading(&md, res, "GP Deal Analysis")
	dealOverview(&md, in)

	md.WriteString("## Sources & Uses\n\n")
	loan := res.Financing.InitialLoanAmount
	lpEq, gpEq := res.Financing.LPEquity, res.Financing.GPEquity
	tableHeader(&md, "", "Amount")
	tableRow(&md, "Loan", Dollars(loan))
	tableRow(&md, "LP Equity", Dollars(lpEq))
	tableRow(&md, "GP Equity", Dollars(gpEq))
	tableRow(&md, "**Total Sources**", Dollars(loan+lpEq+gpEq))

	md.WriteString("\n## Cash Flow Projections\n\n")
	tableHeader(&md, "Year", "NOI", "Debt Service", "Cash Available", "DSCR")
	for _, r := range res.Cashflows {
		tableRow(&md, fmt.Sprintf("%d", r.Year), Dollars(r.NOI), Dollars(r.DebtService),
			Dollars(r.CashAvailable), Multiple(r.DSCR))
	}

	md.WriteString("\n## Waterfall Distributions\n\n")
	tableHeader(&md, "Year", "LP Pref", "GP Pref", "LP Split", "GP Split", "LP Total", "GP Total")
	for _, w := range res.Waterfall.Years {
		tableRow(&md, fmt.Sprintf("%d", w.Year),
			Dollars(w.LPPrefPaid), Dollars(w.GPPrefPaid),
			Dollars(w.LPSplit), Dollars(w.GPSplit),
			Dollars(w.LPTotal), Dollars(w.GPTotal))
	}

	lp, gp := res.Returns.LP, res.Returns.GP
	md.WriteString("\n## Exit & Total Returns\n\n")
	tableHeader(&md, "", "LP", "GP", "Total")
	tableRow(&md, "Annual Distributions", Dollars(lp.AnnualTotal), Dollars(gp.AnnualTotal), Dollars(lp.AnnualTotal+gp.AnnualTotal))
	tableRow(&md, "Exit Proceeds", Dollars(lp.ExitTotal), Dollars(gp.ExitTotal), Dollars(lp.ExitTotal+gp.ExitTotal))
	tableRow(&md, "**Total Cash Received**", Dollars(lp.TotalReceived), Dollars(gp.TotalReceived), Dollars(lp.TotalReceived+gp.TotalReceived))
	tableRow(&md, "Equity Invested", Dollars(lp.EquityInvested), Dollars(gp.EquityInvested), Dollars(lp.EquityInvested+gp.EquityInvested))
	tableRow(&md, "**Profit / (Loss)**", Dollars(lp.Profit), Dollars(gp.Profit), Dollars(lp.Profit+gp.Profit))

	md.WriteString("\n## Return Metrics\n\n")
	kv(&md, "Deal IRR", PctPtr(res.Returns.Deal.IRR))
	kv(&md, "LP IRR", PctPtr(lp.IRR))
	kv(&md, "GP IRR", PctPtr(gp.IRR))
	kv(&md, "LP Equity Multiple", Multiple(lp.EquityMultiple))
	kv(&md, "GP Equity Multiple", Multiple(gp.EquityMultiple))
	if res.Exit.ResidualNote != "" {
		kv(&md, "Residual Split", res.Exit.ResidualNote)
	}
	return md.String()
}

func (b *Builder) lenderReport(res *pipeline.Result) string {
	in := res.Inputs
	var md strings.Builder
	b.heading(&md, res, "Lender Presentation")

	md.WriteString("## Property Summary\n\n")
	property := in.PropertyName
	if property == "" {
		property = in.PropertyAddress
	}
	kv(&md, "Property", property)
	kv(&md, "Location", in.PropertyCityState)
	kv(&md, "Tenant", in.TenantName)
	kv(&md, "Property Type", in.PropertyType)
	kv(&md, "Purchase Price", Dollars(in.PurchasePrice))

	md.WriteString("\n## Loan Terms\n\n")
	if in.Strategy == models.StrategyBridgeToPerm {
		kv(&md, "Loan Type", "Bridge Loan")
		kv(&md, "Loan Amount", Dollars(res.Financing.InitialLoanAmount))
		kv(&md, "Interest Rate", Pct(in.BridgeRate))
		kv(&md, "LTV at Close", Pct(in.BridgeLTV))
		kv(&md, "Term", fmt.Sprintf("%d years", in.BridgeTerm))
		structure := "Amortizing"
		if in.BridgeIO {
			structure = "Interest Only"
		}
		kv(&md, "Structure", structure)
	} else {
		kv(&md, "Loan Type", "Permanent Loan")
		kv(&md, "Loan Amount", Dollars(res.Financing.InitialLoanAmount))
		kv(&md, "Interest Rate", Pct(in.PermRate))
		kv(&md, "LTV at Close", Pct(in.PermLTV))
		kv(&md, "Amortization", fmt.Sprintf("%d years", in.PermAmort))
		kv(&md, "Target DSCR", Multiple(in.TargetDSCR))
	}

	md.WriteString("\n## Debt Coverage Analysis\n\n")
	tableHeader(&md, "Year", "NOI", "Debt Service", "DSCR", "Loan Balance", "Debt Yield")
	for _, dy := range res.Debt.Years {
		tableRow(&md, fmt.Sprintf("%d", dy.Year), Dollars(dy.NOI), Dollars(dy.DebtService),
			Multiple(dy.DSCR), Dollars(dy.LoanBalance), Pct(dy.DebtYield))
	}
	fmt.Fprintf(&md, "\n**Minimum DSCR across hold: %s (year %d)**\n", Multiple(res.Debt.MinDSCR), res.Debt.MinDSCRYear)

	for _, w := range res.Debt.Warnings {
		fmt.Fprintf(&md, "\n> Warning: %s\n", w)
	}

	md.WriteString("\n## Exit / Payoff Summary\n\n")
	sale := res.Exit.SalePrice
	bal := res.Exit.LoanPayoff
	kv(&md, "Exit Year", fmt.Sprintf("%d", in.HoldingPeriod))
	kv(&md, "Exit Cap Rate", Pct(in.ExitCapRate))
	kv(&md, "Sale Price", Dollars(sale))
	kv(&md, "Loan Payoff", Dollars(bal))
	if sale > 0 {
		kv(&md, "LTV at Exit", Pct(bal/sale*100))
	}
	kv(&md, "Equity at Exit", Dollars(sale-bal))
	return md.String()
}
