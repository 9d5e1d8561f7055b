// internal/models/lp.go
package models

// LPTier is the relationship tier assigned to a limited partner.
type LPTier string

const (
	LPTier1 LPTier = "Tier 1"
	LPTier2 LPTier = "Tier 2"
	LPTier3 LPTier = "Tier 3"
)

// InvestmentParameters are the return and sizing targets an LP underwrites to.
type InvestmentParameters struct {
	TargetIRR          float64  `json:"targetIRR"`
	TargetEM           float64  `json:"targetEM"`
	MinInvestment      float64  `json:"minInvestment"`
	MaxInvestment      float64  `json:"maxInvestment,omitempty"`
	PreferredDealTypes []string `json:"preferredDealTypes,omitempty"`
	PreferredMarkets   []string `json:"preferredMarkets,omitempty"`
}

// LP is a limited partner. CommitmentSize is required and drives the Top LPs ranking.
type LP struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name"`
	Tier                 LPTier               `json:"tier"`
	InvestorType         string               `json:"investorType"`
	Location             string               `json:"location,omitempty"`
	CommitmentSize       float64              `json:"commitmentSize"`
	InvestmentParameters InvestmentParameters `json:"investmentParameters"`
}

// LPCard is the summary shown in LP lists.
type LPCard struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Tier           LPTier  `json:"tier"`
	InvestorType   string  `json:"investorType"`
	CommitmentSize float64 `json:"commitmentSize"`
	TargetIRR      float64 `json:"targetIRR"`
	Selected       bool    `json:"selected"`
}

// Card builds the list summary for the LP.
func (lp LP) Card(selected bool) LPCard {
	return LPCard{
		ID:             lp.ID,
		Name:           lp.Name,
		Tier:           lp.Tier,
		InvestorType:   lp.InvestorType,
		CommitmentSize: lp.CommitmentSize,
		TargetIRR:      lp.InvestmentParameters.TargetIRR,
		Selected:       selected,
	}
}
