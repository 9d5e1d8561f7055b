// internal/fixtures/sample.go
package fixtures

import (
	"time"

	"capital-match/internal/models"
)

// SampleData returns the built-in fixture set. Each call returns fresh slices.
func SampleData() Data {
	return Data{
		LPs:          sampleLPs(),
		Deals:        sampleDeals(),
		Matches:      sampleMatches(),
		Alerts:       sampleAlerts(),
		CapitalRaise: models.CapitalRaiseMetrics{Raised: 42_000_000, Target: 150_000_000},
	}
}

func sampleLPs() []models.LP {
	return []models.LP{
		{
			ID: "lp-001", Name: "Lakeshore Pension Fund", Tier: models.LPTier1,
			InvestorType: "Pension Fund", Location: "Chicago, IL", CommitmentSize: 25_000_000,
			InvestmentParameters: models.InvestmentParameters{
				TargetIRR: 15, TargetEM: 1.8, MinInvestment: 2_000_000, MaxInvestment: 10_000_000,
				PreferredDealTypes: []string{"Core-Plus", "Value-Add"},
				PreferredMarkets:   []string{"Chicago", "Milwaukee"},
			},
		},
		{
			ID: "lp-002", Name: "Midwest Family Office", Tier: models.LPTier2,
			InvestorType: "Family Office", Location: "Evanston, IL", CommitmentSize: 8_000_000,
			InvestmentParameters: models.InvestmentParameters{
				TargetIRR: 18, TargetEM: 2.0, MinInvestment: 500_000, MaxInvestment: 3_000_000,
				PreferredDealTypes: []string{"Value-Add", "Development"},
				PreferredMarkets:   []string{"Chicago"},
			},
		},
		{
			ID: "lp-003", Name: "Great Lakes Endowment", Tier: models.LPTier1,
			InvestorType: "Endowment", Location: "Ann Arbor, MI", CommitmentSize: 15_000_000,
			InvestmentParameters: models.InvestmentParameters{
				TargetIRR: 12, TargetEM: 1.6, MinInvestment: 1_000_000, MaxInvestment: 5_000_000,
				PreferredDealTypes: []string{"Core", "Core-Plus"},
				PreferredMarkets:   []string{"Detroit", "Chicago"},
			},
		},
		{
			ID: "lp-004", Name: "Prairie Capital Partners", Tier: models.LPTier3,
			InvestorType: "Private Equity", Location: "Indianapolis, IN", CommitmentSize: 3_500_000,
			InvestmentParameters: models.InvestmentParameters{
				TargetIRR: 22, TargetEM: 2.4, MinInvestment: 750_000, MaxInvestment: 2_000_000,
				PreferredDealTypes: []string{"Development", "Opportunistic"},
				PreferredMarkets:   []string{"Indianapolis", "Columbus"},
			},
		},
		{
			ID: "lp-005", Name: "North Shore Wealth Advisors", Tier: models.LPTier2,
			InvestorType: "RIA", Location: "Winnetka, IL", CommitmentSize: 15_000_000,
			InvestmentParameters: models.InvestmentParameters{
				TargetIRR: 14, TargetEM: 1.7, MinInvestment: 1_000_000, MaxInvestment: 4_000_000,
				PreferredDealTypes: []string{"Core-Plus"},
				PreferredMarkets:   []string{"Chicago"},
			},
		},
		{
			ID: "lp-006", Name: "Heartland Insurance Group", Tier: models.LPTier2,
			InvestorType: "Insurance", Location: "Des Moines, IA", CommitmentSize: 12_000_000,
			InvestmentParameters: models.InvestmentParameters{
				TargetIRR: 11, TargetEM: 1.5, MinInvestment: 2_500_000, MaxInvestment: 8_000_000,
				PreferredDealTypes: []string{"Core"},
				PreferredMarkets:   []string{"Minneapolis", "Chicago"},
			},
		},
	}
}

func sampleDeals() []models.Deal {
	return []models.Deal{
		{
			ID: "deal-001", Name: "Fulton Market Mixed-Use", Type: models.DealTypeValueAdd,
			Market: "Chicago", Stage: "Due Diligence", MatchScore: 92,
			FinancialMetrics:    models.FinancialMetrics{ProjectedIRR: 18.0, ProjectedEM: 2.1, HoldPeriod: 5},
			CapitalRequirements: models.CapitalRequirements{MinInvestment: 1_000_000, TotalRaise: 35_000_000},
		},
		{
			ID: "deal-002", Name: "West Loop Multifamily", Type: models.DealTypeCorePlus,
			Market: "Chicago", Stage: "Marketing", MatchScore: 87,
			FinancialMetrics:    models.FinancialMetrics{ProjectedIRR: 14.5, ProjectedEM: 1.7, HoldPeriod: 7},
			CapitalRequirements: models.CapitalRequirements{MinInvestment: 500_000, TotalRaise: 22_000_000},
		},
		{
			ID: "deal-003", Name: "Milwaukee Riverwalk Lofts", Type: models.DealTypeDevelopment,
			Market: "Milwaukee", Stage: "Pre-Development", MatchScore: 78,
			FinancialMetrics:    models.FinancialMetrics{ProjectedIRR: 22.0, ProjectedEM: 2.5, HoldPeriod: 4},
			CapitalRequirements: models.CapitalRequirements{MinInvestment: 750_000, TotalRaise: 18_000_000},
		},
		{
			ID: "deal-004", Name: "Oak Brook Medical Office", Type: models.DealTypeCore,
			Market: "Chicago", Stage: "Closing", MatchScore: 87,
			FinancialMetrics:    models.FinancialMetrics{ProjectedIRR: 10.5, ProjectedEM: 1.5, HoldPeriod: 10},
			CapitalRequirements: models.CapitalRequirements{MinInvestment: 2_000_000, TotalRaise: 40_000_000},
		},
		{
			ID: "deal-005", Name: "Indianapolis Logistics Park", Type: models.DealTypeOpportunity,
			Market: "Indianapolis", Stage: "Marketing", MatchScore: 71,
			FinancialMetrics:    models.FinancialMetrics{ProjectedIRR: 24.5, ProjectedEM: 2.8, HoldPeriod: 3},
			CapitalRequirements: models.CapitalRequirements{MinInvestment: 1_500_000, TotalRaise: 27_000_000},
		},
		{
			ID: "deal-006", Name: "Detroit Corktown Retail", Type: models.DealTypeValueAdd,
			Market: "Detroit", Stage: "Sourcing", MatchScore: 64,
			FinancialMetrics:    models.FinancialMetrics{ProjectedIRR: 16.0, ProjectedEM: 1.9, HoldPeriod: 5},
			CapitalRequirements: models.CapitalRequirements{MinInvestment: 600_000, TotalRaise: 12_000_000},
		},
	}
}

func sampleMatches() []models.Match {
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 15, 0, 0, 0, time.UTC) }
	return []models.Match{
		{ID: "match-001", LPID: "lp-001", DealID: "deal-002", Date: day(time.March, 4), Score: 91, Status: models.MatchStatusContacted},
		{ID: "match-002", LPID: "lp-002", DealID: "deal-001", Date: day(time.March, 18), Score: 94, Status: models.MatchStatusInReview},
		{ID: "match-003", LPID: "lp-003", DealID: "deal-004", Date: day(time.February, 27), Score: 88, Status: models.MatchStatusCommitted},
		{ID: "match-004", LPID: "lp-004", DealID: "deal-005", Date: day(time.March, 21), Score: 83, Status: models.MatchStatusNew},
		{ID: "match-005", LPID: "lp-005", DealID: "deal-002", Date: day(time.March, 11), Score: 86, Status: models.MatchStatusNew},
		{ID: "match-006", LPID: "lp-006", DealID: "deal-004", Date: day(time.January, 30), Score: 79, Status: models.MatchStatusDeclined},
	}
}

func sampleAlerts() []models.Alert {
	at := func(d, h int) time.Time { return time.Date(2024, time.March, d, h, 0, 0, 0, time.UTC) }
	return []models.Alert{
		{
			ID: "alert-001", Title: "High Opportunity Property Identified",
			Description: "Multi-family property in West Loop matches 4 LP investment criteria",
			Priority:    models.AlertPriorityHigh, Category: "property", CreatedAt: at(22, 9),
		},
		{
			ID: "alert-002", Title: "Price Change Alert",
			Description: "Fulton Market retail asset reduced asking price by 8%",
			Priority:    models.AlertPriorityMedium, Category: "price", CreatedAt: at(21, 14),
		},
		{
			ID: "alert-003", Title: "Market Trend Detected",
			Description: "Industrial vacancy in Indianapolis fell for the third straight quarter",
			Priority:    models.AlertPriorityLow, Category: "market", CreatedAt: at(20, 11),
		},
	}
}
