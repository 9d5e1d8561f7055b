// internal/fixtures/catalog.go
package fixtures

import (
	"fmt"
	"strings"

	"capital-match/internal/common/errors"
	"capital-match/internal/models"
)

// Data is the raw fixture document, as loaded from any Source.
type Data struct {
	LPs          []models.LP                `json:"lps"`
	Deals        []models.Deal              `json:"deals"`
	Matches      []models.Match             `json:"matches"`
	Alerts       []models.Alert             `json:"alerts"`
	CapitalRaise models.CapitalRaiseMetrics `json:"capitalRaise"`
}

// Catalog is an immutable, validated snapshot of the fixtures. Accessors
// return copies in fixture order.
type Catalog struct {
	lps          []models.LP
	deals        []models.Deal
	matches      []models.Match
	alerts       []models.Alert
	capitalRaise models.CapitalRaiseMetrics

	lpIndex   map[string]int
	dealIndex map[string]int
}

// NewCatalog validates identities and references and takes ownership of a copy of data.
func NewCatalog(data Data) (*Catalog, error) {
	c := &Catalog{
		lps:          cloneLPs(data.LPs),
		deals:        cloneDeals(data.Deals),
		matches:      append([]models.Match(nil), data.Matches...),
		alerts:       append([]models.Alert(nil), data.Alerts...),
		capitalRaise: data.CapitalRaise,
		lpIndex:      make(map[string]int, len(data.LPs)),
		dealIndex:    make(map[string]int, len(data.Deals)),
	}

	for i, lp := range c.lps {
		if strings.TrimSpace(lp.ID) == "" {
			return nil, errors.NewFixtureValidationError(fmt.Sprintf("lps[%d]: empty id", i))
		}
		if lp.CommitmentSize < 0 {
			return nil, errors.NewFixtureValidationError(fmt.Sprintf("lp %s: negative commitmentSize", lp.ID))
		}
		if _, dup := c.lpIndex[lp.ID]; dup {
			return nil, errors.NewDuplicateFixtureIDError("LP", lp.ID)
		}
		c.lpIndex[lp.ID] = i
	}

	for i, d := range c.deals {
		if strings.TrimSpace(d.ID) == "" {
			return nil, errors.NewFixtureValidationError(fmt.Sprintf("deals[%d]: empty id", i))
		}
		if d.MatchScore < 0 || d.MatchScore > 100 {
			return nil, errors.NewFixtureValidationError(fmt.Sprintf("deal %s: matchScore %v outside 0-100", d.ID, d.MatchScore))
		}
		if _, dup := c.dealIndex[d.ID]; dup {
			return nil, errors.NewDuplicateFixtureIDError("deal", d.ID)
		}
		c.dealIndex[d.ID] = i
	}

	seenMatch := make(map[string]struct{}, len(c.matches))
	for _, m := range c.matches {
		if _, dup := seenMatch[m.ID]; dup {
			return nil, errors.NewDuplicateFixtureIDError("match", m.ID)
		}
		seenMatch[m.ID] = struct{}{}
		if _, ok := c.lpIndex[m.LPID]; !ok {
			return nil, errors.NewMatchReferenceInvalidError(m.ID, "lpId: "+m.LPID)
		}
		if _, ok := c.dealIndex[m.DealID]; !ok {
			return nil, errors.NewMatchReferenceInvalidError(m.ID, "dealId: "+m.DealID)
		}
	}

	return c, nil
}

func (c *Catalog) LPs() []models.LP {
	return cloneLPs(c.lps)
}

func (c *Catalog) Deals() []models.Deal {
	return cloneDeals(c.deals)
}

func (c *Catalog) Matches() []models.Match {
	return append([]models.Match(nil), c.matches...)
}

func (c *Catalog) Alerts() []models.Alert {
	return append([]models.Alert(nil), c.alerts...)
}

func (c *Catalog) CapitalRaise() models.CapitalRaiseMetrics {
	return c.capitalRaise
}

func (c *Catalog) LP(id string) (models.LP, error) {
	i, ok := c.lpIndex[id]
	if !ok {
		return models.LP{}, errors.NewLPNotFoundError(id)
	}
	return cloneLP(c.lps[i]), nil
}

func (c *Catalog) Deal(id string) (models.Deal, error) {
	i, ok := c.dealIndex[id]
	if !ok {
		return models.Deal{}, errors.NewDealNotFoundError(id)
	}
	return c.deals[i], nil
}

// FirstLP returns the first LP in fixture order, the dashboard's default selection.
func (c *Catalog) FirstLP() (models.LP, bool) {
	if len(c.lps) == 0 {
		return models.LP{}, false
	}
	return cloneLP(c.lps[0]), true
}

func (c *Catalog) FirstDeal() (models.Deal, bool) {
	if len(c.deals) == 0 {
		return models.Deal{}, false
	}
	return c.deals[0], true
}

// MatchCard resolves LP and deal names for a match. References are guaranteed
// valid by NewCatalog.
func (c *Catalog) MatchCard(m models.Match) models.MatchCard {
	return models.MatchCard{
		ID:       m.ID,
		LPID:     m.LPID,
		LPName:   c.lps[c.lpIndex[m.LPID]].Name,
		DealID:   m.DealID,
		DealName: c.deals[c.dealIndex[m.DealID]].Name,
		Date:     m.Date,
		Score:    m.Score,
		Status:   m.Status,
	}
}

func cloneLP(lp models.LP) models.LP {
	p := &lp.InvestmentParameters
	p.PreferredDealTypes = append([]string(nil), p.PreferredDealTypes...)
	p.PreferredMarkets = append([]string(nil), p.PreferredMarkets...)
	return lp
}

func cloneLPs(in []models.LP) []models.LP {
	if in == nil {
		return nil
	}
	out := make([]models.LP, len(in))
	for i, lp := range in {
		out[i] = cloneLP(lp)
	}
	return out
}

func cloneDeals(in []models.Deal) []models.Deal {
	return append([]models.Deal(nil), in...)
}
