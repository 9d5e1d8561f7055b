// internal/workers/matching/simulate-match/models.go
package simulatematch

import "capital-match/internal/models"

type Input struct {
	LPID   string                  `json:"lpId"`
	Params models.SimulationParams `json:"params"`
}

type Output struct {
	LPID                   string                  `json:"lpId"`
	Params                 models.SimulationParams `json:"params"` // after clamping
	Clamped                bool                    `json:"clamped"`
	ConfidenceScore        float64                 `json:"confidenceScore"`
	Strength               models.Strength         `json:"strength"`
	SuggestedOptimizations []string                `json:"suggestedOptimizations"`
}
