// internal/api/catalog_handlers.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"capital-match/internal/dashboard"
	"capital-match/internal/fixtures"
	"capital-match/internal/models"
)

func (h *handlers) getDashboard(w http.ResponseWriter, r *http.Request) {
	section, err := dashboard.ParseSection(r.URL.Query().Get("section"))
	if err != nil {
		writeError(w, err)
		return
	}
	sel := dashboard.DefaultSelection(h.Dashboard.Catalog())
	if id := r.URL.Query().Get("lpId"); id != "" {
		sel.LPID = id
	}
	if id := r.URL.Query().Get("dealId"); id != "" {
		sel.DealID = id
	}

	page, err := h.Dashboard.Render(section, sel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handlers) listLPs(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("selected")
	lps := h.Dashboard.Catalog().LPs()
	cards := make([]models.LPCard, 0, len(lps))
	for _, lp := range lps {
		cards = append(cards, lp.Card(lp.ID == selected))
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *handlers) getLP(w http.ResponseWriter, r *http.Request) {
	lp, err := h.Dashboard.Catalog().LP(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lp)
}

func (h *handlers) listDeals(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("selected")
	deals := h.Dashboard.Catalog().Deals()
	cards := make([]models.DealCard, 0, len(deals))
	for _, d := range deals {
		cards = append(cards, d.Card(d.ID == selected))
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *handlers) getDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := h.Dashboard.Catalog().Deal(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *handlers) searchDeals(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	q := fixtures.DealQuery{
		Text:  r.URL.Query().Get("q"),
		Type:  models.DealType(r.URL.Query().Get("type")),
		Limit: limit,
	}
	deals, err := h.Searcher.SearchDeals(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	cards := make([]models.DealCard, 0, len(deals))
	for _, d := range deals {
		cards = append(cards, d.Card(false))
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *handlers) listMatches(w http.ResponseWriter, r *http.Request) {
	c := h.Dashboard.Catalog()
	matches := c.Matches()
	cards := make([]models.MatchCard, 0, len(matches))
	for _, m := range matches {
		cards = append(cards, c.MatchCard(m))
	}
	writeJSON(w, http.StatusOK, cards)
}
