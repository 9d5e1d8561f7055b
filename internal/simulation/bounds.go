// Package simulation holds the what-if parameter state for one view.
package simulation

import (
	"math"

	"capital-match/internal/common/errors"
	"capital-match/internal/models"
)

// Bounds is the range and step of one slider.
type Bounds struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Clamp limits v to [Min, Max].
func (b Bounds) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return b.Min
	}
	return math.Max(b.Min, math.Min(b.Max, v))
}

// Snap clamps v and rounds it to the nearest step above Min.
func (b Bounds) Snap(v float64) float64 {
	v = b.Clamp(v)
	if b.Step <= 0 {
		return v
	}
	steps := math.Round((v - b.Min) / b.Step)
	snapped := b.Min + steps*b.Step
	// strip float noise such as 18.000000000000004
	snapped = math.Round(snapped*1e6) / 1e6
	return b.Clamp(snapped)
}

type ParamBounds struct {
	IRR            Bounds `json:"irr"`
	EquityMultiple Bounds `json:"equityMultiple"`
	InvestmentSize Bounds `json:"investmentSize"`
}

// DefaultBounds are the slider ranges of the simulation panel.
func DefaultBounds() ParamBounds {
	return ParamBounds{
		IRR:            Bounds{Min: 10, Max: 30, Step: 0.5},
		EquityMultiple: Bounds{Min: 1.0, Max: 3.0, Step: 0.1},
		InvestmentSize: Bounds{Min: 500_000, Max: 5_000_000, Step: 100_000},
	}
}

// Clamp limits every parameter to its range without snapping.
func (p ParamBounds) Clamp(params models.SimulationParams) models.SimulationParams {
	return models.SimulationParams{
		IRR:            p.IRR.Clamp(params.IRR),
		EquityMultiple: p.EquityMultiple.Clamp(params.EquityMultiple),
		InvestmentSize: p.InvestmentSize.Clamp(params.InvestmentSize),
	}
}

// Param names one slider. Values match the JSON field names of SimulationParams.
type Param string

const (
	ParamIRR            Param = "irr"
	ParamEquityMultiple Param = "equityMultiple"
	ParamInvestmentSize Param = "investmentSize"
)

func ParseParam(s string) (Param, error) {
	switch p := Param(s); p {
	case ParamIRR, ParamEquityMultiple, ParamInvestmentSize:
		return p, nil
	}
	return "", errors.NewInvalidSimulationParamError(s)
}

func (p ParamBounds) For(param Param) Bounds {
	switch param {
	case ParamIRR:
		return p.IRR
	case ParamEquityMultiple:
		return p.EquityMultiple
	default:
		return p.InvestmentSize
	}
}
