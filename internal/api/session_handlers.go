// internal/api/session_handlers.go
package api

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"capital-match/internal/common/errors"
	"capital-match/internal/models"
	"capital-match/internal/simulation"
	"capital-match/internal/visualizer"
)

type selectionRequest struct {
	LPID   string `json:"lpId"`
	DealID string `json:"dealId"`
}

// resolve looks both ids up. An empty id means "nothing selected".
func (h *handlers) resolve(req selectionRequest) (*models.LP, *models.Deal, error) {
	c := h.Dashboard.Catalog()
	var lp *models.LP
	var deal *models.Deal
	if req.LPID != "" {
		v, err := c.LP(req.LPID)
		if err != nil {
			return nil, nil, err
		}
		lp = &v
	}
	if req.DealID != "" {
		v, err := c.Deal(req.DealID)
		if err != nil {
			return nil, nil, err
		}
		deal = &v
	}
	return lp, deal, nil
}

func (h *handlers) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	lp, deal, err := h.resolve(req)
	if err != nil {
		writeError(w, err)
		return
	}

	s := h.Sessions.Create()
	s.Select(lp, deal)
	if queryBool(r, "wait") {
		s.view.Wait()
	}
	h.log.Info("session created", map[string]interface{}{
		"sessionId": s.ID,
		"lpId":      req.LPID,
		"dealId":    req.DealID,
	})

	w.Header().Set("Location", "/api/sessions/"+s.ID)
	writeJSON(w, http.StatusCreated, s.Snapshot(""))
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot(r.URL.Query().Get("hover")))
}

func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) getDiagramSVG(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	snap := s.view.Snapshot(r.URL.Query().Get("hover"))
	if snap.Diagram == nil {
		writeError(w, errors.NewInvalidInputError("no diagram while the view is "+string(snap.Status)))
		return
	}

	var buf bytes.Buffer
	if err := visualizer.RenderSVG(&buf, snap.Diagram); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *handlers) putSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req selectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	lp, deal, err := h.resolve(req)
	if err != nil {
		writeError(w, err)
		return
	}
	s.Select(lp, deal)
	if queryBool(r, "wait") {
		s.view.Wait()
	}
	writeJSON(w, http.StatusOK, s.Snapshot(""))
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.view.Refresh()
	status := http.StatusAccepted
	if queryBool(r, "wait") {
		s.view.Wait()
		status = http.StatusOK
	}
	writeJSON(w, status, s.Snapshot(""))
}

func (h *handlers) clickFactor(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	factor := chi.URLParam(r, "factor")
	if err := s.view.ClickFactor(factor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"factor": factor})
}

func (h *handlers) toggleSimulation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	_, deal := s.view.Selection()
	if _, err := s.sim.Toggle(deal); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot(""))
}

// patchSimulationParams accepts any subset of irr, equityMultiple and
// investmentSize. Values are clamped and snapped to the slider grid.
func (h *handlers) patchSimulationParams(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req map[string]float64
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	edits := make(map[simulation.Param]float64, len(req))
	for name, v := range req {
		p, err := simulation.ParseParam(name)
		if err != nil {
			writeError(w, err)
			return
		}
		edits[p] = v
	}
	for _, p := range []simulation.Param{simulation.ParamIRR, simulation.ParamEquityMultiple, simulation.ParamInvestmentSize} {
		v, ok := edits[p]
		if !ok {
			continue
		}
		if _, err := s.sim.SetParam(p, v); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.sim.Snapshot())
}

func (h *handlers) runSimulation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	lp, _ := s.view.Selection()
	if lp == nil {
		writeError(w, errors.NewInvalidInputError("an LP must be selected to simulate"))
		return
	}
	if _, err := s.sim.Run(r.Context(), h.Engine, *lp); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot(""))
}
