package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/eventfacets/internal/domain/model"
)

// EventsHandler serves the displayed events with their visibility.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type eventView struct {
	model.Event
	Visible bool `json:"visible"`
}

type eventsResponse struct {
	Season  string      `json:"season"`
	Total   int         `json:"total"`
	Visible int         `json:"visible"`
	Events  []eventView `json:"events"`
}

// HandleList handles GET /events requests. With visible_only=true hidden
// events are omitted; total still counts them.
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	visibleOnly := false
	if raw := r.URL.Query().Get("visible_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: visible_only: %v", ErrBadRequest, err))
			return
		}
		visibleOnly = v
	}

	l := h.deps.Listing()
	resp := eventsResponse{
		Season:  l.Season,
		Total:   len(l.Events),
		Visible: l.Visible,
		Events:  make([]eventView, 0, len(l.Events)),
	}
	for i, e := range l.Events {
		if visibleOnly && !l.Shown[i] {
			continue
		}
		resp.Events = append(resp.Events, eventView{Event: e, Visible: l.Shown[i]})
	}
	writeJSON(w, http.StatusOK, resp)
}
