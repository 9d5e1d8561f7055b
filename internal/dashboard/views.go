// internal/dashboard/views.go
package dashboard

import (
	"math"
	"sort"

	"capital-match/internal/fixtures"
	"capital-match/internal/models"
)

const Title = "LG Development Capital Match"

// highOpportunityScore is the match score above which a deal counts toward
// the alerts tab's opportunity tile.
const highOpportunityScore = 90

type Metrics struct {
	CapitalRaised   float64 `json:"capitalRaised"`
	CapitalTarget   float64 `json:"capitalTarget"`
	PercentOfTarget int     `json:"percentOfTarget"`
	ActiveLPs       int     `json:"activeLPs"`
	DealPipeline    int     `json:"dealPipeline"`
}

type Overview struct {
	Title         string             `json:"title"`
	Metrics       Metrics            `json:"metrics"`
	TopLPs        []models.LPCard    `json:"topLPs"`
	TopDeals      []models.DealCard  `json:"topDeals"`
	RecentMatches []models.MatchCard `json:"recentMatches"`
	RecentAlerts  []models.Alert     `json:"recentAlerts"`
}

type AlertsView struct {
	HighPriority    int                          `json:"highPriority"`
	NewProperties   int                          `json:"newProperties"`
	HighOpportunity int                          `json:"highOpportunity"`
	ByPriority      map[models.AlertPriority]int `json:"byPriority"`
	Alerts          []models.Alert               `json:"alerts"`
}

type Relationship struct {
	LP           models.LPCard      `json:"lp"`
	Matches      []models.MatchCard `json:"matches"`
	AverageScore float64            `json:"averageScore"`
}

type RelationshipsView struct {
	Relationships []Relationship `json:"relationships"`
}

type InvestorTypeTotal struct {
	InvestorType string  `json:"investorType"`
	LPs          int     `json:"lps"`
	Commitment   float64 `json:"commitment"`
}

type AnalyticsView struct {
	AverageMatchScore float64                 `json:"averageMatchScore"`
	ScoreBands        map[models.Strength]int `json:"scoreBands"`
	DealsByType       map[models.DealType]int `json:"dealsByType"`
	Commitments       []InvestorTypeTotal     `json:"commitments"`
}

func buildOverview(c *fixtures.Catalog) Overview {
	raise := c.CapitalRaise()
	lps, deals := c.LPs(), c.Deals()

	ov := Overview{
		Title: Title,
		Metrics: Metrics{
			CapitalRaised:   raise.Raised,
			CapitalTarget:   raise.Target,
			PercentOfTarget: raise.PercentOfTarget(),
			ActiveLPs:       len(lps),
			DealPipeline:    len(deals),
		},
		RecentAlerts: RecentAlerts(c.Alerts(), TopN),
	}
	for _, lp := range TopLPs(lps, TopN) {
		ov.TopLPs = append(ov.TopLPs, lp.Card(false))
	}
	for _, d := range TopDeals(deals, TopN) {
		ov.TopDeals = append(ov.TopDeals, d.Card(false))
	}
	for _, m := range RecentMatches(c.Matches(), TopN) {
		ov.RecentMatches = append(ov.RecentMatches, c.MatchCard(m))
	}
	return ov
}

func buildAlerts(c *fixtures.Catalog) AlertsView {
	alerts := c.Alerts()
	v := AlertsView{
		ByPriority: map[models.AlertPriority]int{
			models.AlertPriorityHigh:   0,
			models.AlertPriorityMedium: 0,
			models.AlertPriorityLow:    0,
		},
		Alerts: RecentAlerts(alerts, -1),
	}
	for _, a := range alerts {
		v.ByPriority[a.Priority]++
		if a.Category == "property" {
			v.NewProperties++
		}
	}
	v.HighPriority = v.ByPriority[models.AlertPriorityHigh]
	for _, d := range c.Deals() {
		if d.MatchScore > highOpportunityScore {
			v.HighOpportunity++
		}
	}
	return v
}

// buildRelationships lists every LP in fixture order with its matches, newest first.
func buildRelationships(c *fixtures.Catalog) RelationshipsView {
	byLP := make(map[string][]models.Match)
	for _, m := range c.Matches() {
		byLP[m.LPID] = append(byLP[m.LPID], m)
	}

	var v RelationshipsView
	for _, lp := range c.LPs() {
		rel := Relationship{LP: lp.Card(false), Matches: []models.MatchCard{}}
		var total float64
		for _, m := range RecentMatches(byLP[lp.ID], -1) {
			rel.Matches = append(rel.Matches, c.MatchCard(m))
			total += m.Score
		}
		if n := len(rel.Matches); n > 0 {
			rel.AverageScore = round1(total / float64(n))
		}
		v.Relationships = append(v.Relationships, rel)
	}
	return v
}

func buildAnalytics(c *fixtures.Catalog) AnalyticsView {
	v := AnalyticsView{
		ScoreBands: map[models.Strength]int{
			models.StrengthStrong:   0,
			models.StrengthModerate: 0,
			models.StrengthWeak:     0,
		},
		DealsByType: make(map[models.DealType]int),
	}

	matches := c.Matches()
	var total float64
	for _, m := range matches {
		total += m.Score
		v.ScoreBands[models.StrengthFor(m.Score)]++
	}
	if len(matches) > 0 {
		v.AverageMatchScore = round1(total / float64(len(matches)))
	}

	for _, d := range c.Deals() {
		v.DealsByType[d.Type]++
	}

	idx := make(map[string]int)
	for _, lp := range c.LPs() {
		i, ok := idx[lp.InvestorType]
		if !ok {
			i = len(v.Commitments)
			idx[lp.InvestorType] = i
			v.Commitments = append(v.Commitments, InvestorTypeTotal{InvestorType: lp.InvestorType})
		}
		v.Commitments[i].LPs++
		v.Commitments[i].Commitment += lp.CommitmentSize
	}
	sort.SliceStable(v.Commitments, func(i, j int) bool {
		return v.Commitments[i].Commitment > v.Commitments[j].Commitment
	})
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
