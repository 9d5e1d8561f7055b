// internal/models/evaluation.go
package models

// Strength is the qualitative classification of a match factor.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// StrengthFor classifies a 0-100 score.
func StrengthFor(score float64) Strength {
	switch {
	case score >= 80:
		return StrengthStrong
	case score >= 60:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// MatchFactor is one criterion both sides were scored on.
type MatchFactor struct {
	Factor       string   `json:"factor"`
	Contribution float64  `json:"contribution"`
	Strength     Strength `json:"strength"`
	Score        float64  `json:"score"`
}

type EvaluateResponse struct {
	Factors             []MatchFactor `json:"factors"`
	KeyTalkingPoints    []string      `json:"keyTalkingPoints"`
	RecommendedApproach string        `json:"recommendedApproach"`
	ConfidenceScore     float64       `json:"confidenceScore"`
}

// SimulationParams is the what-if parameter set submitted to the engine.
type SimulationParams struct {
	IRR            float64 `json:"irr"`
	EquityMultiple float64 `json:"equityMultiple"`
	InvestmentSize float64 `json:"investmentSize"`
}

type SimulateResponse struct {
	ConfidenceScore        float64  `json:"confidenceScore"`
	SuggestedOptimizations []string `json:"suggestedOptimizations"`
}
