// Package dashboard composes the unified dashboard sections from the fixture catalog.
package dashboard

import (
	"sort"

	"capital-match/internal/models"
)

// TopN is the length of every ranked list on the overview.
const TopN = 3

// The rankings sort a copy with a stable sort so ties keep fixture order.

func TopLPs(lps []models.LP, n int) []models.LP {
	out := append([]models.LP(nil), lps...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CommitmentSize > out[j].CommitmentSize
	})
	return truncate(out, n)
}

func TopDeals(deals []models.Deal, n int) []models.Deal {
	out := append([]models.Deal(nil), deals...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return truncate(out, n)
}

func RecentMatches(matches []models.Match, n int) []models.Match {
	out := append([]models.Match(nil), matches...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return truncate(out, n)
}

func RecentAlerts(alerts []models.Alert, n int) []models.Alert {
	out := append([]models.Alert(nil), alerts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return truncate(out, n)
}

func truncate[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
