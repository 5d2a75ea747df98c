package api

import "net/http"

// SeasonsHandler handles season listing and loading.
type SeasonsHandler struct {
	deps Dependencies
}

// NewSeasonsHandler creates a new seasons handler.
func NewSeasonsHandler(deps Dependencies) *SeasonsHandler {
	return &SeasonsHandler{deps: deps}
}

type loadResponse struct {
	Season  string `json:"season"`
	Total   int    `json:"total"`
	Visible int    `json:"visible"`
}

// HandleList handles GET /seasons requests.
func (h *SeasonsHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Seasons())
}

// HandleLoad handles POST /seasons/{name}/load requests.
func (h *SeasonsHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil || name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.LoadSeason(r.Context(), name); err != nil {
		writeEngineError(w, err)
		return
	}

	l := h.deps.Listing()
	writeJSON(w, http.StatusOK, loadResponse{Season: l.Season, Total: len(l.Events), Visible: l.Visible})
}
