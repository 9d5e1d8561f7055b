// internal/models/deal.go
package models

// DealType classifies the investment strategy of a deal.
type DealType string

const (
	DealTypeDevelopment DealType = "Development"
	DealTypeValueAdd    DealType = "Value-Add"
	DealTypeCore        DealType = "Core"
	DealTypeCorePlus    DealType = "Core-Plus"
	DealTypeOpportunity DealType = "Opportunistic"
)

type FinancialMetrics struct {
	ProjectedIRR float64 `json:"projectedIRR"`
	ProjectedEM  float64 `json:"projectedEM"`
	HoldPeriod   float64 `json:"holdPeriod,omitempty"` // years
}

type CapitalRequirements struct {
	MinInvestment float64 `json:"minInvestment"`
	TotalRaise    float64 `json:"totalRaise,omitempty"`
}

// Deal is an investment opportunity. MatchScore is required and drives the Top Deals ranking.
type Deal struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Type                DealType            `json:"type"`
	Market              string              `json:"market"`
	Stage               string              `json:"stage,omitempty"`
	MatchScore          float64             `json:"matchScore"`
	FinancialMetrics    FinancialMetrics    `json:"financialMetrics"`
	CapitalRequirements CapitalRequirements `json:"capitalRequirements"`
}

// DealCard is the summary shown in deal lists.
type DealCard struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         DealType `json:"type"`
	Market       string   `json:"market"`
	MatchScore   float64  `json:"matchScore"`
	ProjectedIRR float64  `json:"projectedIRR"`
	Selected     bool     `json:"selected"`
}

func (d Deal) Card(selected bool) DealCard {
	return DealCard{
		ID:           d.ID,
		Name:         d.Name,
		Type:         d.Type,
		Market:       d.Market,
		MatchScore:   d.MatchScore,
		ProjectedIRR: d.FinancialMetrics.ProjectedIRR,
		Selected:     selected,
	}
}
