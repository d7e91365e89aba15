package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"cre_underwriting/pkg/core/financing"
	"cre_underwriting/pkg/core/lease"
	"cre_underwriting/pkg/core/returns"
	"cre_underwriting/pkg/core/waterfall"
	"cre_underwriting/pkg/models"
)

// Result is the complete output of one underwriting run.
type Result struct {
	Inputs *models.DealInputs

	NOI       []lease.NOIYear
	Runway    lease.Runway
	Financing FinancingSetup
	Cashflows []CashflowYear
	Waterfall waterfall.Schedule
	Exit      returns.ExitResult
	Returns   returns.Summary
	Debt      DebtAnalysis
}

// Runner executes underwriting runs. Each run works on a private copy of
// the inputs, so one Runner is safe to share across concurrent sweeps.
type Runner struct {
	log *logrus.Logger
}

// NewRunner builds a Runner. A nil logger gets a default logrus instance.
func NewRunner(log *logrus.Logger) *Runner {
	if log == nil {
		log = logrus.New()
	}
	return &Runner{log: log}
}

// Run validates the configuration and executes the full projection:
// NOI, financing, annual cash flows, waterfall, exit, and return metrics.
func (r *Runner) Run(inputs *models.DealInputs) (*Result, error) {
	if err := inputs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deal configuration: %w", err)
	}
	in := inputs.Clone()

	log := r.log.WithFields(logrus.Fields{
		"deal":     in.DealName,
		"strategy": in.Strategy,
		"hold":     in.HoldingPeriod,
	})

	noi := projectNOI(in)
	if len(noi) == 0 {
		return nil, fmt.Errorf("NOI projection produced no years")
	}

	res := &Result{Inputs: in, NOI: noi}
	res.Financing = setupFinancing(in, noi[0].NOI)
	log.WithFields(logrus.Fields{
		"loan":   res.Financing.InitialLoanAmount,
		"equity": res.Financing.TotalEquityNeeded,
	}).Info("capital stack sized")

	if in.HasRefi() {
		primary := in.Tenants[0]
		res.Runway = lease.ComputeRunway(primary.LeaseExpirationYear, primary.RenewalOptions, primary.OptionTerm)
		feas := financing.CheckFeasibility(res.Runway.CurrentTermRemaining, res.Runway.OptionsRemaining, primary.OptionTerm, in.RefiYear, 0)
		res.Financing.RefiFeasibility = &feas
		if !feas.Feasible {
			log.WithField("status", feas.Status).Warn("refinance feasibility check failed")
		}
	}

	var err error
	res.Cashflows, err = buildCashflows(in, noi, &res.Financing)
	if err != nil {
		return nil, err
	}

	terms := waterfall.Terms{
		LPEquity:       res.Financing.LPEquity,
		GPEquity:       res.Financing.GPEquity,
		PrefRatePct:    in.PrefRate,
		GPProfitShare:  in.GPProfitShare,
		IncludeCatchup: in.IncludeCatchup,
	}
	cash := make([]float64, len(res.Cashflows))
	for i, row := range res.Cashflows {
		cash[i] = row.CashAvailable
	}
	res.Waterfall = waterfall.Run(terms, cash)

	last := res.Cashflows[len(res.Cashflows)-1]
	res.Exit = returns.ComputeExit(returns.ExitInput{
		ExitYearNOI:    last.NOI,
		ExitCapRatePct: in.ExitCapRate,
		LoanPayoff:     last.LoanBalance,
		BrokerPct:      in.BrokerCommissionPct,
		LegalPct:       in.ExitLegalPct,
		DispositionPct: in.DispositionFeePct,
		Terms:          terms,
		Schedule:       res.Waterfall,
		Splitter:       returns.SplitterFor(in),
	})
	res.Returns = returns.Summarize(terms, res.Waterfall, res.Exit)
	res.Debt = analyzeDebt(res.Cashflows, res.Financing.InitialLoanAmount, in.PermRate, res.Exit.SalePrice)

	fields := logrus.Fields{
		"sale_price": res.Exit.SalePrice,
		"lp_em":      res.Returns.LP.EquityMultiple,
	}
	if res.Returns.Deal.IRR != nil {
		fields["deal_irr"] = *res.Returns.Deal.IRR
	}
	log.WithFields(fields).Info("underwriting run complete")
	return res, nil
}

// projectNOI picks the projection path. A renegotiated single lease goes
// through the legacy splice; everything else uses the tenant-roll model.
func projectNOI(in *models.DealInputs) []lease.NOIYear {
	if in.Renegotiation.Enabled && len(in.Tenants) == 1 {
		t := in.Tenants[0]
		pre := lease.SingleLeaseParams{
			BaseRent:             t.AnnualRent,
			Structure:            t.Escalation,
			BumpFrequency:        t.BumpFrequency,
			BumpPct:              t.BumpPercentage,
			Escalator:            t.AnnualEscalator,
			CurrentTermRemaining: t.LeaseExpirationYear,
			YearsElapsed:         t.YearsElapsed,
		}
		return lease.SpliceRenegotiation(pre, in.Renegotiation, in.HoldingPeriod)
	}
	return lease.ProjectTenants(in.Tenants, in.HoldingPeriod)
}
