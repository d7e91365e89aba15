package models

import (
	"fmt"
)

// DealStrategy selects the financing structure for the deal.
// The string values match the historical scenario-file vocabulary so that
// previously saved snapshots load without translation.
type DealStrategy string

const (
	StrategyBuyAndHold   DealStrategy = "Buy-and-Hold with Permanent Financing"
	StrategyBridgeToPerm DealStrategy = "Bridge-to-Permanent (Value-Add)"
)

// ExitStrategy applies to buy-and-hold deals only.
type ExitStrategy string

const (
	ExitSell ExitStrategy = "Sell Property"
	ExitRefi ExitStrategy = "Cash-Out Refinance"
)

// EscalationType describes how a tenant's rent grows over time.
type EscalationType string

const (
	EscalationFixedBumps EscalationType = "Fixed Bumps Every N Years"
	EscalationAnnual     EscalationType = "Annual Escalator (%)"
	EscalationFlat       EscalationType = "Flat (No Increases)"
)

// ValuationMethod selects how the property is valued at a refinance event.
type ValuationMethod string

const (
	ValuationCapRate      ValuationMethod = "Based on Cap Rate"
	ValuationFixedValue   ValuationMethod = "Fixed Property Value"
	ValuationAppreciation ValuationMethod = "Based on Original Purchase Price"
)

// PromoteMode gates the residual split of exit proceeds.
type PromoteMode string

const (
	PromoteNone  PromoteMode = "None"
	PromoteIRR   PromoteMode = "IRR-Based Promote"
	PromoteLPCap PromoteMode = "LP Return Cap"
)

// OccupancyStatus marks a tenant slot as income-producing or not.
type OccupancyStatus string

const (
	Occupied OccupancyStatus = "Occupied"
	Vacant   OccupancyStatus = "Vacant"
)

// Tenant holds one lease's terms as of acquisition. Tenants are created and
// edited by the caller between runs and treated as immutable during a run.
type Tenant struct {
	Name       string  `json:"name"`
	SquareFeet float64 `json:"sqft"`
	AnnualRent float64 `json:"annual_rent"`

	// LeaseExpirationYear is the number of projection years left on the
	// current term (year index at which the term ends).
	LeaseExpirationYear int `json:"lease_expiration_year"`
	// YearsElapsed counts years since the lease originally commenced.
	YearsElapsed   int `json:"years_elapsed"`
	RenewalOptions int `json:"renewal_options"`
	OptionTerm     int `json:"option_term"`

	Escalation      EscalationType `json:"escalation_type"`
	BumpFrequency   int            `json:"bump_frequency"`
	BumpPercentage  float64        `json:"bump_percentage"`
	AnnualEscalator float64        `json:"annual_escalator"`

	Status OccupancyStatus `json:"status"`
}

// Renegotiation describes an optional mid-hold lease reset: from RenegoYear
// onward the projection switches to the new rent and structure.
type Renegotiation struct {
	Enabled       bool           `json:"renegotiate_lease"`
	Year          int            `json:"renego_year"`
	NewRent       float64        `json:"renego_rent"`
	NewStructure  EscalationType `json:"renego_structure"`
	BumpFrequency int            `json:"renego_bump_freq"`
	BumpPct       float64        `json:"renego_bump_pct"`
	Escalator     float64        `json:"renego_escalator"`
	NewTerm       int            `json:"renego_new_term"`
}

// DealInputs is the complete configuration for one projection run.
//
// Every field has a defined value for every strategy; there is no carry-over
// of a previous strategy's leftovers. Fields that do not apply to the chosen
// strategy are simply ignored by the engine (e.g. bridge terms under
// buy-and-hold), never read as implicit fallbacks.
type DealInputs struct {
	// Strategy & hold
	Strategy DealStrategy `json:"deal_strategy"`
	// Exit labels the planned end of the hold for snapshots and reports;
	// refinance timing itself is driven entirely by RefiYear.
	Exit          ExitStrategy `json:"exit_strategy"`
	HoldingPeriod int          `json:"holding_period"`

	// RefiYear is the projection year of the refinance event; 0 means no
	// refinance is scheduled.
	RefiYear int `json:"refi_year"`

	// Property metadata (reports only, no computation)
	DealName          string  `json:"deal_name"`
	PropertyName      string  `json:"property_name"`
	PropertyAddress   string  `json:"property_address"`
	PropertyCityState string  `json:"property_city_state"`
	PropertyType      string  `json:"property_type"`
	TenantName        string  `json:"tenant_name"`
	SquareFeet        float64 `json:"property_sqft"`
	YearBuilt         int     `json:"year_built"`

	// Acquisition
	PurchasePrice     float64 `json:"purchase_price"`
	ClosingCostsPct   float64 `json:"closing_costs_pct"`
	AcquisitionFeePct float64 `json:"acquisition_fee_pct"`

	// Tenancy
	Tenants       []Tenant      `json:"tenants"`
	Renegotiation Renegotiation `json:"renegotiation"`

	// Value-add capital spend: raised at close, spent in ValueAddYear.
	ValueAddCapex float64 `json:"value_add_capex"`
	ValueAddYear  int     `json:"value_add_year"`

	// Bridge financing (bridge-to-perm strategy only)
	BridgeLTV           float64 `json:"bridge_ltv"`
	BridgeRate          float64 `json:"bridge_rate"`
	BridgeTerm          int     `json:"bridge_term"`
	BridgeIO            bool    `json:"bridge_io"`
	BridgeOrigPoints    float64 `json:"bridge_orig_points"`
	BridgePrepayPenalty float64 `json:"bridge_prepay_penalty"`

	// Permanent financing
	PermRate          float64 `json:"perm_rate"`
	PermAmort         int     `json:"perm_amort"`
	PermLTV           float64 `json:"perm_ltv"`
	TargetDSCR        float64 `json:"target_dscr"`
	UseConservative   bool    `json:"use_conservative"`
	PermOrigPointsAcq float64 `json:"perm_orig_points_acq"`
	PermOrigPoints    float64 `json:"perm_orig_points"`
	RefiLegalCosts    float64 `json:"refi_legal_costs"`

	// Refinance valuation & cash-out policy
	RefiValuation    ValuationMethod `json:"refi_valuation_method"`
	RefiCapRate      float64         `json:"refi_cap_rate"`
	FixedRefiValue   float64         `json:"fixed_refi_value"`
	AppreciationRate float64         `json:"appreciation_rate"`
	AllowCashOut     bool            `json:"allow_cashout"`
	MaxCashOutPct    float64         `json:"max_cashout_pct"`

	// Non-operating expenses
	CapexReserve float64 `json:"capex_reserve"`
	AssetMgmtPct float64 `json:"asset_mgmt_pct"`
	AdminCosts   float64 `json:"admin_costs"`

	// Investor structure
	LPEquityPct    float64     `json:"lp_equity_pct"`
	PrefRate       float64     `json:"pref_rate"`
	GPProfitShare  float64     `json:"gp_profit_share"`
	IncludeCatchup bool        `json:"include_catchup"`
	Promote        PromoteMode `json:"promote_mode"`
	PromoteHurdle  float64     `json:"promote_hurdle_irr"`
	GPPromoteShare float64     `json:"gp_promote_share"`
	LPIRRCap       float64     `json:"lp_irr_cap"`

	// Exit assumptions
	ExitCapRate         float64 `json:"exit_cap_rate"`
	BrokerCommissionPct float64 `json:"broker_commission_pct"`
	ExitLegalPct        float64 `json:"exit_legal_pct"`
	DispositionFeePct   float64 `json:"disposition_fee_pct"`
}

// GPEquityPct is derived, never stored.
func (in *DealInputs) GPEquityPct() float64 {
	return 100.0 - in.LPEquityPct
}

// HasRefi reports whether a refinance event is scheduled inside the hold.
func (in *DealInputs) HasRefi() bool {
	return in.RefiYear > 0 && in.RefiYear <= in.HoldingPeriod
}

// Clone returns a deep copy so a pipeline run can never mutate the caller's
// configuration (the tenant list is the only reference-typed field).
func (in *DealInputs) Clone() *DealInputs {
	out := *in
	out.Tenants = make([]Tenant, len(in.Tenants))
	copy(out.Tenants, in.Tenants)
	return &out
}

// Validate fails fast on contract violations rather than guessing defaults.
func (in *DealInputs) Validate() error {
	switch in.Strategy {
	case StrategyBuyAndHold, StrategyBridgeToPerm:
	default:
		return fmt.Errorf("unknown deal strategy %q", in.Strategy)
	}
	switch in.Exit {
	case ExitSell, ExitRefi, "":
	default:
		return fmt.Errorf("unknown exit strategy %q", in.Exit)
	}
	if in.HoldingPeriod <= 0 {
		return fmt.Errorf("holding period must be positive, got %d", in.HoldingPeriod)
	}
	if in.PurchasePrice <= 0 {
		return fmt.Errorf("purchase price must be positive, got %.2f", in.PurchasePrice)
	}
	if len(in.Tenants) == 0 {
		return fmt.Errorf("at least one tenant is required")
	}
	for i, t := range in.Tenants {
		if t.Status != Occupied && t.Status != Vacant {
			return fmt.Errorf("tenant %d (%s): unknown status %q", i, t.Name, t.Status)
		}
		if t.Status == Vacant {
			continue
		}
		switch t.Escalation {
		case EscalationFixedBumps:
			if t.BumpFrequency <= 0 {
				return fmt.Errorf("tenant %d (%s): fixed bumps require a positive bump frequency", i, t.Name)
			}
		case EscalationAnnual, EscalationFlat:
		default:
			return fmt.Errorf("tenant %d (%s): unknown escalation type %q", i, t.Name, t.Escalation)
		}
	}
	if in.LPEquityPct < 0 || in.LPEquityPct > 100 {
		return fmt.Errorf("LP equity %% must be in [0,100], got %.2f", in.LPEquityPct)
	}
	if in.GPProfitShare < 0 || in.GPProfitShare >= 100 {
		return fmt.Errorf("GP profit share %% must be in [0,100), got %.2f", in.GPProfitShare)
	}
	if in.Strategy == StrategyBridgeToPerm {
		if in.BridgeLTV <= 0 || in.BridgeRate <= 0 || in.BridgeTerm <= 0 {
			return fmt.Errorf("bridge-to-perm requires bridge LTV, rate, and term")
		}
		if !in.HasRefi() {
			return fmt.Errorf("bridge-to-perm requires a refinance year within the hold (got %d of %d)", in.RefiYear, in.HoldingPeriod)
		}
	}
	if in.PermAmort <= 0 {
		return fmt.Errorf("permanent amortization must be positive, got %d", in.PermAmort)
	}
	if in.TargetDSCR <= 0 {
		return fmt.Errorf("target DSCR must be positive, got %.2f", in.TargetDSCR)
	}
	if in.HasRefi() {
		// Exactly the selected valuation method's parameters must be usable.
		switch in.RefiValuation {
		case ValuationCapRate:
			if in.RefiCapRate <= 0 {
				return fmt.Errorf("cap-rate valuation requires a positive refi cap rate")
			}
		case ValuationFixedValue:
			if in.FixedRefiValue <= 0 {
				return fmt.Errorf("fixed-value valuation requires a positive property value")
			}
		case ValuationAppreciation:
			if in.AppreciationRate == 0 {
				return fmt.Errorf("appreciation valuation requires a non-zero appreciation rate")
			}
		default:
			return fmt.Errorf("unknown refinance valuation method %q", in.RefiValuation)
		}
		if in.AllowCashOut && (in.MaxCashOutPct < 0 || in.MaxCashOutPct > 100) {
			return fmt.Errorf("max cash-out %% must be in [0,100], got %.2f", in.MaxCashOutPct)
		}
	}
	switch in.Promote {
	case PromoteNone, "":
	case PromoteIRR:
		if in.PromoteHurdle <= 0 {
			return fmt.Errorf("IRR promote requires a positive hurdle")
		}
		if in.GPPromoteShare < 0 || in.GPPromoteShare > 100 {
			return fmt.Errorf("GP promote share %% must be in [0,100], got %.2f", in.GPPromoteShare)
		}
	case PromoteLPCap:
		if in.LPIRRCap <= 0 {
			return fmt.Errorf("LP return cap requires a positive cap rate")
		}
	default:
		return fmt.Errorf("unknown promote mode %q", in.Promote)
	}
	if in.ExitCapRate <= 0 {
		return fmt.Errorf("exit cap rate must be positive, got %.2f", in.ExitCapRate)
	}
	if in.Renegotiation.Enabled && in.Renegotiation.Year <= 0 {
		return fmt.Errorf("lease renegotiation requires a positive year")
	}
	return nil
}
