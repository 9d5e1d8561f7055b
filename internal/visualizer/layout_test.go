package visualizer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capital-match/internal/models"
)

func sampleFactors() []models.MatchFactor {
	return []models.MatchFactor{
		{Factor: "IRR Alignment", Contribution: 30, Strength: models.StrengthStrong, Score: 100},
		{Factor: "Equity Multiple", Contribution: 15, Strength: models.StrengthModerate, Score: 60},
		{Factor: "Market", Contribution: 3, Strength: models.StrengthWeak, Score: 30},
	}
}

func TestFactorPositions(t *testing.T) {
	lp, deal := FactorPositions(sampleFactors())

	require.Len(t, lp, 3)
	require.Len(t, deal, 3)
	for i := range lp {
		assert.Equal(t, float64(StartY+i*NodeGap), lp[i].Y)
		assert.Equal(t, lp[i], deal[i])
	}
	assert.Equal(t, 240.0, lp[2].Y)
}

func TestPathData(t *testing.T) {
	assert.Equal(t, "M 100 120 C 400 120, 400 180, 700 180", PathData(120, 180))
	assert.Equal(t, "M 100 120 C 400 120, 400 120, 700 120", PathData(120, 120))
}

func TestStrengthStyling(t *testing.T) {
	tests := []struct {
		strength models.Strength
		want     string
	}{
		{models.StrengthStrong, "#2E7D32"},
		{models.StrengthModerate, "#F57C00"},
		{models.StrengthWeak, "#C62828"},
		{"unknown", "#C62828"},
	}
	for _, tt := range tests {
		t.Run(string(tt.strength), func(t *testing.T) {
			assert.Equal(t, tt.want, StrengthColor(tt.strength))
		})
	}
	assert.Equal(t, 3.0, StrokeWidth(30))
}

func TestConnect_SkipsMismatchedIndices(t *testing.T) {
	factors := sampleFactors()
	lp, deal := FactorPositions(factors)

	tests := []struct {
		name string
		lp   []Position
		deal []Position
		want int
	}{
		{"aligned", lp, deal, 3},
		{"short lp column", lp[:1], deal, 1},
		{"short deal column", lp, deal[:2], 2},
		{"no positions", nil, nil, 0},
		{"no lp positions", nil, deal, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var conns []Connection
			require.NotPanics(t, func() {
				conns = Connect(factors, tt.lp, tt.deal, "")
			})
			assert.Len(t, conns, tt.want)
			assert.LessOrEqual(t, len(conns), min(len(tt.lp), len(tt.deal)))
		})
	}
}

func TestConnect_IndicatorAndHover(t *testing.T) {
	factors := sampleFactors()
	lp, deal := FactorPositions(factors)

	conns := Connect(factors, lp, deal, "Equity Multiple")
	require.Len(t, conns, 3)

	assert.Equal(t, OpacityIdle, conns[0].Opacity)
	assert.Equal(t, OpacityHighlighted, conns[1].Opacity)
	assert.Equal(t, 400.0, conns[1].Indicator.CX)
	assert.Equal(t, 180.0, conns[1].Indicator.CY)
	assert.Equal(t, "60", conns[1].Indicator.Label)
	assert.Equal(t, 1.5, conns[1].StrokeWidth)

	nodes := Nodes(SideDeal, deal, "Equity Multiple")
	assert.False(t, nodes[0].Bold)
	assert.True(t, nodes[1].Bold)
	assert.Equal(t, float64(DealColumnX), nodes[1].X)
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, models.StrengthStrong, BandFor(81).Strength)
	assert.Equal(t, models.StrengthModerate, BandFor(80).Strength)
	assert.Equal(t, models.StrengthWeak, BandFor(60).Strength)
	assert.Equal(t, "#F57C00", BandFor(12).From)
}

func TestHeaderFor(t *testing.T) {
	h := HeaderFor(nil, nil)
	assert.Equal(t, PlaceholderLP, h.LPLabel)
	assert.Equal(t, PlaceholderDeal, h.DealLabel)

	lp := &models.LP{Name: "Midwest Pension", Tier: models.LPTier1}
	h = HeaderFor(lp, nil)
	assert.Equal(t, "Midwest Pension", h.LPLabel)
	assert.Equal(t, string(models.LPTier1), h.LPBadge)
	assert.Equal(t, PlaceholderDeal, h.DealLabel)
}

func TestRenderSVG(t *testing.T) {
	resp := &models.EvaluateResponse{Factors: sampleFactors(), ConfidenceScore: 77}
	d := Build(Header{LPLabel: "A & B", DealLabel: "Deal"}, resp, "Market")

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, d))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Equal(t, 3, strings.Count(out, "<path "))
	assert.Contains(t, out, "A &amp; B")
	assert.Contains(t, out, `stroke="#C62828" stroke-width="0.3" fill="none" opacity="1"`)
	assert.Contains(t, out, `font-weight="bold">Market</text>`)
}
