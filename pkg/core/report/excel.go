package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"cre_underwriting/pkg/core/pipeline"
)

// Spreadsheet sheet names.
const (
	sheetCashFlow  = "Cash Flow"
	sheetWaterfall = "Waterfall"
	sheetDebt      = "Debt"
	sheetReturns   = "Returns"
)

// Workbook exports the full engine output as a spreadsheet: one sheet each
// for cash flows, waterfall distributions, debt metrics, and the return
// summary. The caller owns the returned file and should Close it.
func Workbook(res *pipeline.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeCashFlowSheet(f, res); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeWaterfallSheet(f, res); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeDebtSheet(f, res); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeReturnsSheet(f, res); err != nil {
		f.Close()
		return nil, err
	}

	// Drop the default sheet so the workbook opens on cash flows.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeCashFlowSheet(f *excelize.File, res *pipeline.Result) error {
	if _, err := f.NewSheet(sheetCashFlow); err != nil {
		return fmt.Errorf("failed to create cash flow sheet: %w", err)
	}
	if err := setRow(f, sheetCashFlow, 1,
		"Year", "Lease Status", "NOI", "Operating Expenses", "Value-Add CapEx",
		"Cash Before Debt", "Debt Service", "Cash Available", "DSCR",
		"Loan Balance", "Loan Type"); err != nil {
		return err
	}
	for i, r := range res.Cashflows {
		if err := setRow(f, sheetCashFlow, i+2,
			r.Year, r.LeaseStatus, r.NOI, r.OperatingExpenses, r.ValueAddCapex,
			r.CashBeforeDebt, r.DebtService, r.CashAvailable, r.DSCR,
			r.LoanBalance, r.LoanType); err != nil {
			return err
		}
	}
	return nil
}

func writeWaterfallSheet(f *excelize.File, res *pipeline.Result) error {
	if _, err := f.NewSheet(sheetWaterfall); err != nil {
		return fmt.Errorf("failed to create waterfall sheet: %w", err)
	}
	if err := setRow(f, sheetWaterfall, 1,
		"Year", "Cash Available", "LP Pref", "GP Pref", "GP Catch-up",
		"LP Split", "GP Split", "LP Total", "GP Total",
		"LP Cumulative", "GP Cumulative", "LP Pref Deficit", "GP Pref Deficit"); err != nil {
		return err
	}
	for i, w := range res.Waterfall.Years {
		if err := setRow(f, sheetWaterfall, i+2,
			w.Year, w.CashAvailable, w.LPPrefPaid, w.GPPrefPaid, w.GPCatchup,
			w.LPSplit, w.GPSplit, w.LPTotal, w.GPTotal,
			w.LPCumulative, w.GPCumulative, w.LPDeficit, w.GPDeficit); err != nil {
			return err
		}
	}
	return nil
}

func writeDebtSheet(f *excelize.File, res *pipeline.Result) error {
	if _, err := f.NewSheet(sheetDebt); err != nil {
		return fmt.Errorf("failed to create debt sheet: %w", err)
	}
	if err := setRow(f, sheetDebt, 1,
		"Year", "Loan Type", "Loan Balance", "NOI", "Debt Service",
		"DSCR", "Debt Yield (%)", "LTV (%)"); err != nil {
		return err
	}
	for i, d := range res.Debt.Years {
		if err := setRow(f, sheetDebt, i+2,
			d.Year, d.LoanType, d.LoanBalance, d.NOI, d.DebtService,
			d.DSCR, d.DebtYield, d.LTV); err != nil {
			return err
		}
	}
	return nil
}

func writeReturnsSheet(f *excelize.File, res *pipeline.Result) error {
	if _, err := f.NewSheet(sheetReturns); err != nil {
		return fmt.Errorf("failed to create returns sheet: %w", err)
	}
	rows := [][]interface{}{
		{"", "LP", "GP", "Deal"},
		{"Equity Invested", res.Returns.LP.EquityInvested, res.Returns.GP.EquityInvested, res.Returns.Deal.EquityInvested},
		{"Annual Distributions", res.Returns.LP.AnnualTotal, res.Returns.GP.AnnualTotal, res.Returns.Deal.AnnualTotal},
		{"Exit Proceeds", res.Returns.LP.ExitTotal, res.Returns.GP.ExitTotal, res.Returns.Deal.ExitTotal},
		{"Total Cash Received", res.Returns.LP.TotalReceived, res.Returns.GP.TotalReceived, res.Returns.Deal.TotalReceived},
		{"Profit / (Loss)", res.Returns.LP.Profit, res.Returns.GP.Profit, res.Returns.Deal.Profit},
		{"IRR", PctPtr(res.Returns.LP.IRR), PctPtr(res.Returns.GP.IRR), PctPtr(res.Returns.Deal.IRR)},
		{"Equity Multiple", res.Returns.LP.EquityMultiple, res.Returns.GP.EquityMultiple, res.Returns.Deal.EquityMultiple},
	}
	for i, row := range rows {
		if err := setRow(f, sheetReturns, i+1, row...); err != nil {
			return err
		}
	}
	return nil
}
