// Package pipeline orchestrates a full underwriting run: NOI projection,
// loan setup, the annual cash-flow table, distribution waterfall, exit
// waterfall, and return metrics.
package pipeline

import (
	"fmt"

	"cre_underwriting/pkg/core/financing"
	"cre_underwriting/pkg/core/lease"
	"cre_underwriting/pkg/models"
)

// Loan-type labels carried on each cash-flow row.
const (
	LoanBridge       = "Bridge"
	LoanBridgeToPerm = "Bridge→Perm"
	LoanPerm         = "Perm"
	LoanPermRefi     = "Perm Refi"
)

// CashflowYear is one row of the annual cash-flow table.
type CashflowYear struct {
	Year              int
	LeaseStatus       string
	NOI               float64
	OperatingExpenses float64
	ValueAddCapex     float64
	CashBeforeDebt    float64
	DebtService       float64
	CashAvailable     float64
	DSCR              float64
	LoanBalance       float64
	LoanType          string
}

// FinancingSetup captures the capital stack assembled at acquisition plus
// the refinance outcome once it occurs.
type FinancingSetup struct {
	InitialLoanAmount  float64
	InitialDebtService float64
	Sizing             *financing.SizedLoan // buy-and-hold sizing detail
	Uses               financing.ProjectCost
	TotalEquityNeeded  float64
	LPEquity           float64
	GPEquity           float64

	Refi            *financing.RefinanceResult
	RefiFeasibility *financing.Feasibility
	NewLoanAmount   float64
	PermPayment     float64
}

// setupFinancing sizes the acquisition loan and the equity raise for the
// configured strategy. Bridge deals raise the value-add budget up front.
func setupFinancing(in *models.DealInputs, year1NOI float64) FinancingSetup {
	var f FinancingSetup

	if in.Strategy == models.StrategyBridgeToPerm {
		bridgeLoan := in.PurchasePrice * in.BridgeLTV / 100
		f.InitialLoanAmount = bridgeLoan
		f.InitialDebtService = financing.Payment(bridgeLoan, in.BridgeRate, in.BridgeTerm, in.BridgeIO)
		f.Uses = financing.TotalProjectCost(in.PurchasePrice, in.ClosingCostsPct, in.BridgeOrigPoints, in.AcquisitionFeePct, bridgeLoan)
		f.TotalEquityNeeded = f.Uses.TotalUses - bridgeLoan + in.ValueAddCapex
	} else {
		sized := financing.SizeLoan(in.PurchasePrice, year1NOI, in.PermRate, in.PermAmort, in.PermLTV, in.TargetDSCR, in.UseConservative)
		f.Sizing = &sized
		f.InitialLoanAmount = sized.Amount
		f.InitialDebtService = financing.Payment(sized.Amount, in.PermRate, in.PermAmort, false)
		f.Uses = financing.TotalProjectCost(in.PurchasePrice, in.ClosingCostsPct, in.PermOrigPointsAcq, in.AcquisitionFeePct, sized.Amount)
		f.TotalEquityNeeded = f.Uses.TotalUses - sized.Amount
	}

	f.LPEquity = f.TotalEquityNeeded * in.LPEquityPct / 100
	f.GPEquity = f.TotalEquityNeeded * in.GPEquityPct() / 100
	return f
}

// buildCashflows walks the hold year by year, switching debt service and
// balances across the refinance event. The refinance fires at the start of
// its year, so that year carries a full year of new-loan payments and the
// ending balance reflects one year of amortization on the new loan.
func buildCashflows(in *models.DealInputs, noi []lease.NOIYear, f *FinancingSetup) ([]CashflowYear, error) {
	rows := make([]CashflowYear, 0, in.HoldingPeriod)

	opex := in.CapexReserve + f.LPEquity*in.AssetMgmtPct/100 + in.AdminCosts

	for year := 1; year <= in.HoldingPeriod; year++ {
		if year > len(noi) {
			return nil, fmt.Errorf("NOI projection covers %d years, need %d", len(noi), in.HoldingPeriod)
		}
		ny := noi[year-1]

		var (
			debtService  float64
			loanBalance  float64
			loanType     string
			refiProceeds float64
		)

		switch {
		case in.Strategy == models.StrategyBridgeToPerm && year < in.RefiYear:
			debtService = f.InitialDebtService
			loanBalance = financing.Balance(f.InitialLoanAmount, in.BridgeRate, in.BridgeTerm, year, in.BridgeIO)
			loanType = LoanBridge

		case in.Strategy == models.StrategyBridgeToPerm && year == in.RefiYear:
			payoff := financing.Balance(f.InitialLoanAmount, in.BridgeRate, in.BridgeTerm, year-1, in.BridgeIO)
			res := runRefinance(in, ny.NOI, payoff, in.BridgePrepayPenalty)
			f.Refi = &res
			f.NewLoanAmount = res.NewLoanAmount
			f.PermPayment = financing.Payment(res.NewLoanAmount, in.PermRate, in.PermAmort, false)

			debtService = f.PermPayment
			loanBalance = financing.Balance(f.NewLoanAmount, in.PermRate, in.PermAmort, 1, false)
			refiProceeds = res.NetProceeds
			loanType = LoanBridgeToPerm

		case in.Strategy == models.StrategyBridgeToPerm:
			debtService = f.PermPayment
			loanBalance = financing.Balance(f.NewLoanAmount, in.PermRate, in.PermAmort, year-in.RefiYear+1, false)
			loanType = LoanPerm

		case !in.HasRefi() || year < in.RefiYear:
			debtService = f.InitialDebtService
			loanBalance = financing.Balance(f.InitialLoanAmount, in.PermRate, in.PermAmort, year, false)
			loanType = LoanPerm

		case year == in.RefiYear:
			// No prepayment penalty retiring the original perm loan.
			payoff := financing.Balance(f.InitialLoanAmount, in.PermRate, in.PermAmort, year-1, false)
			res := runRefinance(in, ny.NOI, payoff, 0)
			f.Refi = &res
			f.NewLoanAmount = res.NewLoanAmount
			f.PermPayment = financing.Payment(res.NewLoanAmount, in.PermRate, in.PermAmort, false)

			debtService = f.PermPayment
			loanBalance = financing.Balance(f.NewLoanAmount, in.PermRate, in.PermAmort, 1, false)
			refiProceeds = res.NetProceeds
			loanType = LoanPermRefi

		default:
			debtService = f.PermPayment
			loanBalance = financing.Balance(f.NewLoanAmount, in.PermRate, in.PermAmort, year-in.RefiYear+1, false)
			loanType = LoanPerm
		}

		cashBeforeDebt := ny.NOI - opex
		cashAvailable := cashBeforeDebt - debtService + refiProceeds

		var vaCapex float64
		if in.ValueAddCapex > 0 && year == in.ValueAddYear {
			vaCapex = in.ValueAddCapex
			cashAvailable -= vaCapex
		}

		rows = append(rows, CashflowYear{
			Year:              year,
			LeaseStatus:       ny.Status,
			NOI:               ny.NOI,
			OperatingExpenses: opex,
			ValueAddCapex:     vaCapex,
			CashBeforeDebt:    cashBeforeDebt,
			DebtService:       debtService,
			CashAvailable:     cashAvailable,
			DSCR:              financing.DSCR(ny.NOI, debtService),
			LoanBalance:       loanBalance,
			LoanType:          loanType,
		})
	}
	return rows, nil
}

func runRefinance(in *models.DealInputs, noiAtRefi, payoff, prepayPct float64) financing.RefinanceResult {
	return financing.Refinance(financing.RefinanceInput{
		NOIAtRefi:        noiAtRefi,
		Valuation:        in.RefiValuation,
		RefiCapRatePct:   in.RefiCapRate,
		FixedValue:       in.FixedRefiValue,
		PurchasePrice:    in.PurchasePrice,
		YearsHeld:        in.RefiYear,
		AppreciationRate: in.AppreciationRate,
		PermRatePct:      in.PermRate,
		PermLTVPct:       in.PermLTV,
		PermAmortYears:   in.PermAmort,
		TargetDSCR:       in.TargetDSCR,
		UseConservative:  in.UseConservative,
		AllowCashOut:     in.AllowCashOut,
		MaxCashOutPct:    in.MaxCashOutPct,
		PayoffBalance:    payoff,
		PrepayPenaltyPct: prepayPct,
		OrigPointsPct:    in.PermOrigPoints,
		LegalCosts:       in.RefiLegalCosts,
	})
}
