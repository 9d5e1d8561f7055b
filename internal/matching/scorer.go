// internal/matching/scorer.go
package matching

import (
	"context"
	"fmt"
	"math"
	"strings"

	"capital-match/internal/common/logger"
	"capital-match/internal/models"
)

// Factor names, in display order.
const (
	FactorIRR        = "IRR Alignment"
	FactorEM         = "Equity Multiple"
	FactorInvestment = "Investment Size"
	FactorDealType   = "Deal Type"
	FactorMarket     = "Market"
)

// Factor weights sum to 100 so that contributions sum to the confidence score.
var factorWeights = map[string]float64{
	FactorIRR:        30,
	FactorEM:         25,
	FactorInvestment: 20,
	FactorDealType:   15,
	FactorMarket:     10,
}

// Scorer is the in-process matching engine. It scores each factor on a fixed
// tier scale and weights the tiers into a confidence score.
type Scorer struct {
	logger logger.Logger
}

func NewScorer(log logger.Logger) *Scorer {
	return &Scorer{logger: logger.Component(log, "matching.scorer")}
}

func (s *Scorer) Evaluate(ctx context.Context, lp models.LP, deal models.Deal) (*models.EvaluateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := lp.InvestmentParameters

	scores := []struct {
		name  string
		score float64
	}{
		{FactorIRR, returnFit(p.TargetIRR, deal.FinancialMetrics.ProjectedIRR, 1, 3, 5)},
		{FactorEM, returnFit(p.TargetEM, deal.FinancialMetrics.ProjectedEM, 0.1, 0.25, 0.5)},
		{FactorInvestment, sizeFit(lpTicket(lp), deal.CapitalRequirements.MinInvestment, deal.CapitalRequirements.TotalRaise)},
		{FactorDealType, preferenceFit(p.PreferredDealTypes, string(deal.Type), 40)},
		{FactorMarket, preferenceFit(p.PreferredMarkets, deal.Market, 30)},
	}

	resp := &models.EvaluateResponse{Factors: make([]models.MatchFactor, 0, len(scores))}
	var confidence float64
	for _, sc := range scores {
		contribution := round1(factorWeights[sc.name] * sc.score / 100)
		confidence += contribution
		resp.Factors = append(resp.Factors, models.MatchFactor{
			Factor:       sc.name,
			Contribution: contribution,
			Strength:     models.StrengthFor(sc.score),
			Score:        sc.score,
		})
	}
	resp.ConfidenceScore = round1(confidence)
	resp.KeyTalkingPoints = talkingPoints(lp, deal, resp.Factors)
	resp.RecommendedApproach = recommendedApproach(lp, deal, resp.ConfidenceScore)

	s.logger.Debug("match evaluated", map[string]interface{}{
		"lpId":       lp.ID,
		"dealId":     deal.ID,
		"confidence": resp.ConfidenceScore,
	})
	return resp, nil
}

// Simulate scores the what-if parameters against the LP's targets. Deal type
// and market are not part of the parameter set, so only the three financial
// factors are weighted.
func (s *Scorer) Simulate(ctx context.Context, lp models.LP, params models.SimulationParams) (*models.SimulateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := lp.InvestmentParameters

	irr := returnFit(p.TargetIRR, params.IRR, 1, 3, 5)
	em := returnFit(p.TargetEM, params.EquityMultiple, 0.1, 0.25, 0.5)
	size := sizeFit(params.InvestmentSize, p.MinInvestment, p.MaxInvestment)

	wIRR, wEM, wSize := factorWeights[FactorIRR], factorWeights[FactorEM], factorWeights[FactorInvestment]
	confidence := round1((irr*wIRR + em*wEM + size*wSize) / (wIRR + wEM + wSize))

	var suggestions []string
	if irr < 100 {
		suggestions = append(suggestions,
			fmt.Sprintf("Increase projected IRR toward the LP's %.1f%% target", p.TargetIRR))
	}
	if em < 100 {
		suggestions = append(suggestions,
			fmt.Sprintf("Improve the equity multiple toward %.1fx", p.TargetEM))
	}
	if size < 100 {
		suggestions = append(suggestions, sizeSuggestion(params.InvestmentSize, p))
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Current structure meets all of the LP's stated return and sizing criteria")
	}

	s.logger.Debug("simulation scored", map[string]interface{}{
		"lpId":       lp.ID,
		"confidence": confidence,
	})
	return &models.SimulateResponse{
		ConfidenceScore:        confidence,
		SuggestedOptimizations: suggestions,
	}, nil
}

// returnFit scores actual against target on a five-tier scale. A missing target scores neutral.
func returnFit(target, actual, near, mid, far float64) float64 {
	if target <= 0 {
		return 50
	}
	gap := target - actual
	switch {
	case gap <= 0:
		return 100
	case gap <= near:
		return 80
	case gap <= mid:
		return 60
	case gap <= far:
		return 40
	}
	return 20
}

// sizeFit scores a ticket against an allowed range; hi <= 0 means unbounded.
func sizeFit(ticket, lo, hi float64) float64 {
	if ticket <= 0 {
		return 50
	}
	if hi <= 0 {
		hi = math.Inf(1)
	}
	switch {
	case ticket >= lo && ticket <= hi:
		return 100
	case ticket > hi:
		return 80
	case ticket >= lo*0.8:
		return 60
	case ticket >= lo*0.5:
		return 40
	}
	return 20
}

func preferenceFit(prefs []string, value string, miss float64) float64 {
	if len(prefs) == 0 || value == "" {
		return 50
	}
	for _, p := range prefs {
		if strings.EqualFold(p, value) {
			return 100
		}
	}
	return miss
}

// lpTicket is the largest single allocation the LP will write.
func lpTicket(lp models.LP) float64 {
	if lp.InvestmentParameters.MaxInvestment > 0 {
		return lp.InvestmentParameters.MaxInvestment
	}
	return lp.CommitmentSize
}

func talkingPoints(lp models.LP, deal models.Deal, factors []models.MatchFactor) []string {
	var points []string
	p := lp.InvestmentParameters
	for _, f := range factors {
		if f.Strength != models.StrengthStrong {
			continue
		}
		switch f.Factor {
		case FactorIRR:
			points = append(points, fmt.Sprintf("Projected %.1f%% IRR clears the %.1f%% target", deal.FinancialMetrics.ProjectedIRR, p.TargetIRR))
		case FactorEM:
			points = append(points, fmt.Sprintf("%.1fx equity multiple meets the %.1fx hurdle", deal.FinancialMetrics.ProjectedEM, p.TargetEM))
		case FactorInvestment:
			points = append(points, fmt.Sprintf("%s minimum fits within a %s allocation", formatMoney(deal.CapitalRequirements.MinInvestment), formatMoney(lpTicket(lp))))
		case FactorDealType:
			points = append(points, fmt.Sprintf("%s strategy is on the LP's preferred list", deal.Type))
		case FactorMarket:
			points = append(points, fmt.Sprintf("Active interest in the %s market", deal.Market))
		}
	}
	if len(points) == 0 {
		points = append(points, fmt.Sprintf("Position %s as a diversification opportunity for %s", deal.Name, lp.Name))
	}
	return points
}

func recommendedApproach(lp models.LP, deal models.Deal, confidence float64) string {
	switch {
	case confidence >= 80:
		return fmt.Sprintf("Schedule a direct call with %s and share the %s investment memo", lp.Name, deal.Name)
	case confidence >= 60:
		return fmt.Sprintf("Send a tailored teaser for %s highlighting the strongest factors, then follow up", deal.Name)
	default:
		return fmt.Sprintf("Keep %s warm with market updates; %s is not a priority fit", lp.Name, deal.Name)
	}
}

func sizeSuggestion(size float64, p models.InvestmentParameters) string {
	if p.MaxInvestment > 0 && size > p.MaxInvestment {
		return fmt.Sprintf("Reduce the allocation to at most %s", formatMoney(p.MaxInvestment))
	}
	return fmt.Sprintf("Raise the allocation to at least %s", formatMoney(p.MinInvestment))
}

func formatMoney(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	}
	return fmt.Sprintf("$%.0fK", v/1_000)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
