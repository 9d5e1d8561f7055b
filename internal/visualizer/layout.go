// Package visualizer turns a match evaluation into a two-column factor diagram
// and tracks the evaluation lifecycle of one LP/deal view.
package visualizer

import (
	"fmt"
	"math"

	"capital-match/internal/models"
)

// Canvas geometry.
const (
	CanvasWidth  = 800
	CanvasHeight = 500
	LPColumnX    = 100
	DealColumnX  = 700
	StartY       = 120
	NodeGap      = 60

	NodeRadius      = 8
	IndicatorRadius = 15
	NodeFill        = "#275E91"

	OpacityIdle        = 0.6
	OpacityHighlighted = 1.0
)

var strengthColors = map[models.Strength]string{
	models.StrengthStrong:   "#2E7D32",
	models.StrengthModerate: "#F57C00",
	models.StrengthWeak:     "#C62828",
}

// StrengthColor maps a factor strength to its stroke colour. Unknown strengths
// render as weak.
func StrengthColor(s models.Strength) string {
	if c, ok := strengthColors[s]; ok {
		return c
	}
	return strengthColors[models.StrengthWeak]
}

// StrokeWidth scales a contribution weight to a path thickness.
func StrokeWidth(contribution float64) float64 {
	return contribution / 10
}

// Position is the vertical slot of one factor node.
type Position struct {
	Factor string  `json:"factor"`
	Y      float64 `json:"y"`
}

// FactorPositions lays out both columns with the same sequencing so the Nth LP
// node lines up with the Nth deal node.
func FactorPositions(factors []models.MatchFactor) (lp, deal []Position) {
	lp = make([]Position, len(factors))
	deal = make([]Position, len(factors))
	for i, f := range factors {
		y := float64(StartY + i*NodeGap)
		lp[i] = Position{Factor: f.Factor, Y: y}
		deal[i] = Position{Factor: f.Factor, Y: y}
	}
	return lp, deal
}

// PathData returns a cubic Bezier from the LP column to the deal column with
// both control points on the horizontal midpoint.
func PathData(sourceY, targetY float64) string {
	sx, tx := float64(LPColumnX), float64(DealColumnX)
	d := (tx - sx) / 2
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		num(sx), num(sourceY),
		num(sx+d), num(sourceY),
		num(tx-d), num(targetY),
		num(tx), num(targetY))
}

type Side string

const (
	SideLP   Side = "lp"
	SideDeal Side = "deal"
)

type Node struct {
	Factor string  `json:"factor"`
	Side   Side    `json:"side"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Bold   bool    `json:"bold"`
}

// ScoreIndicator is the labelled circle drawn at a connection's midpoint.
type ScoreIndicator struct {
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
	R     float64 `json:"r"`
	Fill  string  `json:"fill"`
	Label string  `json:"label"`
}

type Connection struct {
	Factor       string          `json:"factor"`
	Strength     models.Strength `json:"strength"`
	Contribution float64         `json:"contribution"`
	Score        float64         `json:"score"`
	Path         string          `json:"path"`
	Color        string          `json:"color"`
	StrokeWidth  float64         `json:"strokeWidth"`
	Opacity      float64         `json:"opacity"`
	Indicator    ScoreIndicator  `json:"indicator"`
}

// Connect builds one connection per factor. A factor whose index is missing
// from either position slice is skipped, so the result never holds more than
// min(len(lp), len(deal)) entries.
func Connect(factors []models.MatchFactor, lp, deal []Position, hovered string) []Connection {
	out := make([]Connection, 0, len(factors))
	for i, f := range factors {
		if i >= len(lp) || i >= len(deal) {
			continue
		}
		sy, ty := lp[i].Y, deal[i].Y
		color := StrengthColor(f.Strength)
		opacity := OpacityIdle
		if hovered != "" && hovered == f.Factor {
			opacity = OpacityHighlighted
		}
		out = append(out, Connection{
			Factor:       f.Factor,
			Strength:     f.Strength,
			Contribution: f.Contribution,
			Score:        f.Score,
			Path:         PathData(sy, ty),
			Color:        color,
			StrokeWidth:  StrokeWidth(f.Contribution),
			Opacity:      opacity,
			Indicator: ScoreIndicator{
				CX:    (LPColumnX + DealColumnX) / 2,
				CY:    (sy + ty) / 2,
				R:     IndicatorRadius,
				Fill:  color,
				Label: num(f.Score),
			},
		})
	}
	return out
}

// Nodes places the factor nodes of one column, bolding the hovered factor.
func Nodes(side Side, positions []Position, hovered string) []Node {
	x := float64(LPColumnX)
	if side == SideDeal {
		x = DealColumnX
	}
	out := make([]Node, len(positions))
	for i, p := range positions {
		out[i] = Node{Factor: p.Factor, Side: side, X: x, Y: p.Y, Bold: hovered != "" && hovered == p.Factor}
	}
	return out
}

// num formats coordinates and scores without trailing zeros.
func num(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", math.Round(v*100)/100)
}
