// internal/models/match.go
package models

import "time"

type MatchStatus string

const (
	MatchStatusNew       MatchStatus = "new"
	MatchStatusInReview  MatchStatus = "in_review"
	MatchStatusContacted MatchStatus = "contacted"
	MatchStatusCommitted MatchStatus = "committed"
	MatchStatusDeclined  MatchStatus = "declined"
)

// Match is a scored pairing of one LP and one deal.
type Match struct {
	ID     string      `json:"id"`
	LPID   string      `json:"lpId"`
	DealID string      `json:"dealId"`
	Date   time.Time   `json:"date"`
	Score  float64     `json:"score"`
	Status MatchStatus `json:"status"`
}

// MatchCard carries the names resolved from the catalog so the card needs no lookups.
type MatchCard struct {
	ID       string      `json:"id"`
	LPID     string      `json:"lpId"`
	LPName   string      `json:"lpName"`
	DealID   string      `json:"dealId"`
	DealName string      `json:"dealName"`
	Date     time.Time   `json:"date"`
	Score    float64     `json:"score"`
	Status   MatchStatus `json:"status"`
}
