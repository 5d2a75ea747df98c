package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// FacetsHandler handles facet listing and selection changes.
type FacetsHandler struct {
	deps     Dependencies
	validate *validator.Validate
}

// NewFacetsHandler creates a new facets handler.
func NewFacetsHandler(deps Dependencies, v *validator.Validate) *FacetsHandler {
	return &FacetsHandler{deps: deps, validate: v}
}

// selectRequest mirrors the OpenAPI schema for PUT /facets/{index}/values/{value}.
type selectRequest struct {
	Selected *bool `json:"selected" validate:"required"`
}

// HandleList handles GET /facets requests.
func (h *FacetsHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Facets())
}

// HandleClear handles POST /facets/{index}/clear requests.
func (h *FacetsHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	index, err := facetIndex(r)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.deps.ToggleAll(index); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Facets()[index])
}

// HandleSelect handles PUT /facets/{index}/values/{value} requests.
func (h *FacetsHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	index, err := facetIndex(r)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	value, err := pathParam(r, "value")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	if err := h.deps.Select(index, value, *req.Selected); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Facets()[index])
}

// HandleReset handles POST /facets/reset requests.
func (h *FacetsHandler) HandleReset(w http.ResponseWriter, _ *http.Request) {
	h.deps.ResetFilters()
	writeJSON(w, http.StatusOK, h.deps.Facets())
}

func facetIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadIndex, chi.URLParam(r, "index"))
	}
	return index, nil
}
