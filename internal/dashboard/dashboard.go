// internal/dashboard/dashboard.go
package dashboard

import (
	"strings"
	"sync"

	"capital-match/internal/common/errors"
	"capital-match/internal/fixtures"
)

type Section string

const (
	SectionOverview      Section = "overview"
	SectionAnalytics     Section = "analytics"
	SectionRelationships Section = "relationships"
	SectionAlerts        Section = "alerts"
)

// Sections lists the tabs in display order.
var Sections = []Section{SectionOverview, SectionAnalytics, SectionRelationships, SectionAlerts}

// ParseSection maps a tab name to a Section; empty selects the overview.
func ParseSection(s string) (Section, error) {
	if s == "" {
		return SectionOverview, nil
	}
	for _, sec := range Sections {
		if strings.EqualFold(s, string(sec)) {
			return sec, nil
		}
	}
	return "", errors.NewInvalidSectionError(s)
}

// Selection marks the LP and deal highlighted in the overview cards.
type Selection struct {
	LPID   string
	DealID string
}

// DefaultSelection picks the first LP and deal in fixture order.
func DefaultSelection(c *fixtures.Catalog) Selection {
	var sel Selection
	if lp, ok := c.FirstLP(); ok {
		sel.LPID = lp.ID
	}
	if d, ok := c.FirstDeal(); ok {
		sel.DealID = d.ID
	}
	return sel
}

// Dashboard holds the derived section payloads. They are computed once per
// catalog; call Rebuild after the backing data changes.
type Dashboard struct {
	mu            sync.RWMutex
	catalog       *fixtures.Catalog
	overview      Overview
	alerts        AlertsView
	relationships RelationshipsView
	analytics     AnalyticsView
}

func New(c *fixtures.Catalog) *Dashboard {
	d := &Dashboard{}
	d.Rebuild(c)
	return d
}

// Rebuild re-derives every section from c.
func (d *Dashboard) Rebuild(c *fixtures.Catalog) {
	overview := buildOverview(c)
	alerts := buildAlerts(c)
	relationships := buildRelationships(c)
	analytics := buildAnalytics(c)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.catalog = c
	d.overview = overview
	d.alerts = alerts
	d.relationships = relationships
	d.analytics = analytics
}

func (d *Dashboard) Catalog() *fixtures.Catalog {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.catalog
}

// Overview returns the overview with sel's cards marked as selected.
func (d *Dashboard) Overview(sel Selection) Overview {
	d.mu.RLock()
	ov := d.overview
	d.mu.RUnlock()

	ov.TopLPs = append(ov.TopLPs[:0:0], ov.TopLPs...)
	for i := range ov.TopLPs {
		ov.TopLPs[i].Selected = ov.TopLPs[i].ID == sel.LPID
	}
	ov.TopDeals = append(ov.TopDeals[:0:0], ov.TopDeals...)
	for i := range ov.TopDeals {
		ov.TopDeals[i].Selected = ov.TopDeals[i].ID == sel.DealID
	}
	return ov
}

func (d *Dashboard) Alerts() AlertsView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.alerts
}

func (d *Dashboard) Relationships() RelationshipsView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.relationships
}

func (d *Dashboard) Analytics() AnalyticsView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.analytics
}

// Page is the payload for one section.
type Page struct {
	Title     string    `json:"title"`
	Section   Section   `json:"section"`
	Sections  []Section `json:"sections"`
	Selection struct {
		LPID   string `json:"lpId,omitempty"`
		DealID string `json:"dealId,omitempty"`
	} `json:"selection"`
	Content interface{} `json:"content"`
}

// Render builds the page for a section.
func (d *Dashboard) Render(section Section, sel Selection) (Page, error) {
	p := Page{Title: Title, Section: section, Sections: Sections}
	p.Selection.LPID, p.Selection.DealID = sel.LPID, sel.DealID

	switch section {
	case SectionOverview:
		p.Content = d.Overview(sel)
	case SectionAnalytics:
		p.Content = d.Analytics()
	case SectionRelationships:
		p.Content = d.Relationships()
	case SectionAlerts:
		p.Content = d.Alerts()
	default:
		return Page{}, errors.NewInvalidSectionError(string(section))
	}
	return p, nil
}
