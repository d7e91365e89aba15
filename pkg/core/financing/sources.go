package financing

// ProjectCost is the uses-of-funds stack at acquisition.
type ProjectCost struct {
	PurchasePrice   float64
	ClosingCosts    float64
	LoanOrigination float64
	AcquisitionFee  float64
	TotalUses       float64
}

// TotalProjectCost computes total uses of funds. Origination points apply to
// the acquisition loan, closing costs and acquisition fee to the purchase.
func TotalProjectCost(purchasePrice, closingCostsPct, origPointsPct, acquisitionFeePct, loanAmount float64) ProjectCost {
	closing := purchasePrice * closingCostsPct / 100
	origination := loanAmount * origPointsPct / 100
	acqFee := purchasePrice * acquisitionFeePct / 100
	return ProjectCost{
		PurchasePrice:   purchasePrice,
		ClosingCosts:    closing,
		LoanOrigination: origination,
		AcquisitionFee:  acqFee,
		TotalUses:       purchasePrice + closing + origination + acqFee,
	}
}

// SourcesAndUses pairs the funding stack with the equity requirement.
type SourcesAndUses struct {
	Loan         float64
	LPEquity     float64
	GPEquity     float64
	TotalEquity  float64
	TotalSources float64
	EquityNeeded float64
	Uses         ProjectCost
}

// Sources computes sources against a loan sized at loanLTVPct of the
// purchase price, with LP/GP equity dollars supplied by the caller.
func Sources(purchasePrice, loanLTVPct, lpEquity, gpEquity, closingCostsPct, origPointsPct, acquisitionFeePct float64) SourcesAndUses {
	loan := purchasePrice * loanLTVPct / 100
	uses := TotalProjectCost(purchasePrice, closingCostsPct, origPointsPct, acquisitionFeePct, loan)
	return SourcesAndUses{
		Loan:         loan,
		LPEquity:     lpEquity,
		GPEquity:     gpEquity,
		TotalEquity:  lpEquity + gpEquity,
		TotalSources: loan + lpEquity + gpEquity,
		EquityNeeded: uses.TotalUses - loan,
		Uses:         uses,
	}
}
