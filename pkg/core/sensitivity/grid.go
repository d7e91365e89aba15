// Package sensitivity sweeps the full underwriting pipeline across rate
// assumptions, producing IRR grids for downside analysis.
package sensitivity

import (
	"github.com/sirupsen/logrus"

	"cre_underwriting/pkg/core/pipeline"
	"cre_underwriting/pkg/models"
)

// Axis values used when the caller does not supply ranges: the exit caps
// span the typical institutional band, and perm rates bracket the base
// assumption by a point in each direction.
var DefaultExitCaps = []float64{5.0, 5.5, 6.0, 6.5, 7.0, 7.5, 8.0}

// PermRateBand brackets a base rate with +/- 1.0% in half-point steps.
func PermRateBand(baseRatePct float64) []float64 {
	deltas := []float64{-1.0, -0.5, 0, 0.5, 1.0}
	out := make([]float64, len(deltas))
	for i, d := range deltas {
		out[i] = baseRatePct + d
	}
	return out
}

// Cell is one grid evaluation. A nil IRR marks an undefined or failed cell.
type Cell struct {
	ExitCapPct  float64
	PermRatePct float64
	DealIRR     *float64
	LPIRR       *float64
}

// Grid is a sweep over exit cap (columns) by perm rate (rows).
type Grid struct {
	ExitCaps  []float64
	PermRates []float64
	Cells     [][]Cell // [rate][cap]
}

// Overrides pins the non-axis sweep parameters for a whole grid run. Zero
// values leave the base assumption in place.
type Overrides struct {
	PurchasePrice float64
	RefiCapRate   float64
}

func (o Overrides) apply(in *models.DealInputs) {
	if o.PurchasePrice > 0 {
		in.PurchasePrice = o.PurchasePrice
	}
	if o.RefiCapRate > 0 {
		in.RefiCapRate = o.RefiCapRate
	}
}

// Sweeper runs pipeline evaluations over parameter grids. Each evaluation
// clones the base inputs, so the sweep never mutates shared state.
type Sweeper struct {
	runner *pipeline.Runner
	log    *logrus.Logger
}

func NewSweeper(runner *pipeline.Runner, log *logrus.Logger) *Sweeper {
	if log == nil {
		log = logrus.New()
	}
	if runner == nil {
		runner = pipeline.NewRunner(log)
	}
	return &Sweeper{runner: runner, log: log}
}

// Run evaluates the deal across every (perm rate, exit cap) pair. Empty
// axis slices fall back to the defaults around the base inputs. A panic or
// error inside one cell yields an undefined cell, never an aborted sweep.
func (s *Sweeper) Run(base *models.DealInputs, permRates, exitCaps []float64) Grid {
	return s.RunWith(base, Overrides{}, permRates, exitCaps)
}

// RunWith sweeps the same grid with purchase price or refi cap pinned to
// values other than the base assumptions, so stress grids can be stacked
// across those dimensions as well.
func (s *Sweeper) RunWith(base *models.DealInputs, ov Overrides, permRates, exitCaps []float64) Grid {
	if len(permRates) == 0 {
		permRates = PermRateBand(base.PermRate)
	}
	if len(exitCaps) == 0 {
		exitCaps = DefaultExitCaps
	}

	g := Grid{ExitCaps: exitCaps, PermRates: permRates}
	g.Cells = make([][]Cell, len(permRates))
	for i, rate := range permRates {
		g.Cells[i] = make([]Cell, len(exitCaps))
		for j, cap := range exitCaps {
			g.Cells[i][j] = s.evaluate(base, ov, rate, cap)
		}
	}
	return g
}

func (s *Sweeper) evaluate(base *models.DealInputs, ov Overrides, permRate, exitCap float64) (cell Cell) {
	cell = Cell{ExitCapPct: exitCap, PermRatePct: permRate}

	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"perm_rate": permRate,
				"exit_cap":  exitCap,
				"panic":     r,
			}).Warn("sensitivity cell failed")
			cell.DealIRR = nil
			cell.LPIRR = nil
		}
	}()

	in := base.Clone()
	ov.apply(in)
	in.PermRate = permRate
	in.ExitCapRate = exitCap

	res, err := s.runner.Run(in)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"perm_rate": permRate,
			"exit_cap":  exitCap,
		}).WithError(err).Debug("sensitivity cell infeasible")
		return cell
	}
	cell.DealIRR = res.Returns.Deal.IRR
	cell.LPIRR = res.Returns.LP.IRR
	return cell
}
