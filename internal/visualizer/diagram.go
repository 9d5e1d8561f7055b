// internal/visualizer/diagram.go
package visualizer

import "capital-match/internal/models"

const (
	PlaceholderLP   = "LP Criteria"
	PlaceholderDeal = "Deal Attributes"
	LoadingText     = "Generating match via MCP..."
)

// ConfidenceBand is the gradient used for the confidence bar.
type ConfidenceBand struct {
	Score    float64         `json:"score"`
	Strength models.Strength `json:"strength"`
	From     string          `json:"from"`
	To       string          `json:"to"`
}

// BandFor picks the gradient for a 0-100 confidence score. The thresholds are
// strict, unlike factor strength.
func BandFor(score float64) ConfidenceBand {
	switch {
	case score > 80:
		return ConfidenceBand{Score: score, Strength: models.StrengthStrong, From: "#7A8D79", To: "#2E7D32"}
	case score > 60:
		return ConfidenceBand{Score: score, Strength: models.StrengthModerate, From: "#7A8D79", To: "#F57C00"}
	default:
		return ConfidenceBand{Score: score, Strength: models.StrengthWeak, From: "#F57C00", To: "#C62828"}
	}
}

// Header carries the column titles and badges shown above the canvas.
type Header struct {
	LPLabel   string `json:"lpLabel"`
	LPBadge   string `json:"lpBadge,omitempty"`
	DealLabel string `json:"dealLabel"`
	DealBadge string `json:"dealBadge,omitempty"`
}

// HeaderFor falls back to placeholder labels for a missing side.
func HeaderFor(lp *models.LP, deal *models.Deal) Header {
	h := Header{LPLabel: PlaceholderLP, DealLabel: PlaceholderDeal}
	if lp != nil {
		h.LPLabel = lp.Name
		h.LPBadge = string(lp.Tier)
	}
	if deal != nil {
		h.DealLabel = deal.Name
		h.DealBadge = string(deal.Type)
	}
	return h
}

// Diagram is a fully laid out evaluation.
type Diagram struct {
	Width               int            `json:"width"`
	Height              int            `json:"height"`
	Header              Header         `json:"header"`
	Connections         []Connection   `json:"connections"`
	LPNodes             []Node         `json:"lpNodes"`
	DealNodes           []Node         `json:"dealNodes"`
	KeyTalkingPoints    []string       `json:"keyTalkingPoints"`
	RecommendedApproach string         `json:"recommendedApproach,omitempty"`
	Confidence          ConfidenceBand `json:"confidence"`
}

// Build lays out an evaluation. hovered is the factor under the pointer, if
// any; it only affects this rendering.
func Build(header Header, resp *models.EvaluateResponse, hovered string) *Diagram {
	lpPos, dealPos := FactorPositions(resp.Factors)
	return &Diagram{
		Width:               CanvasWidth,
		Height:              CanvasHeight,
		Header:              header,
		Connections:         Connect(resp.Factors, lpPos, dealPos, hovered),
		LPNodes:             Nodes(SideLP, lpPos, hovered),
		DealNodes:           Nodes(SideDeal, dealPos, hovered),
		KeyTalkingPoints:    append([]string(nil), resp.KeyTalkingPoints...),
		RecommendedApproach: resp.RecommendedApproach,
		Confidence:          BandFor(resp.ConfidenceScore),
	}
}
