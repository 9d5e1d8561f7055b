// internal/workers/matching/evaluate-match/models.go
package evaluatematch

import "capital-match/internal/models"

type Input struct {
	LPID   string `json:"lpId"`
	DealID string `json:"dealId"`
}

type Output struct {
	LPID                string               `json:"lpId"`
	DealID              string               `json:"dealId"`
	ConfidenceScore     float64              `json:"confidenceScore"`
	Strength            models.Strength      `json:"strength"`
	Factors             []models.MatchFactor `json:"factors"`
	KeyTalkingPoints    []string             `json:"keyTalkingPoints"`
	RecommendedApproach string               `json:"recommendedApproach"`
	EvaluatedAt         string               `json:"evaluatedAt"` // ISO 8601
}
