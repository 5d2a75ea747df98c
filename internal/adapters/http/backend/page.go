package backend

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/okian/eventfacets/internal/adapters/source"
	"github.com/okian/eventfacets/internal/domain/model"
	"github.com/okian/eventfacets/internal/domain/season"
)

var pageTemplate = template.Must(template.New("events").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Events</title>
  </head>
  <body>
    <select id="season-select">
      <option value="Upcoming" selected>Upcoming</option>
      {{- range .Seasons}}
      <option value="{{.Name}}">{{.Name}}</option>
      {{- end}}
    </select>
    <ul id="events">
      {{- range .Events}}
      <li>{{.Date}} {{.Name}} ({{.Format}}, {{.Organizer}})</li>
      {{- end}}
    </ul>
    <script id="{{.ElementID}}" type="application/json">{{.Payload}}</script>
  </body>
</html>
`))

type pageData struct {
	Events    []model.Event
	Seasons   []season.Range
	ElementID string
	Payload   template.JS
}

// RenderPage writes the events page with events embedded as the fast path
// payload. encoding/json escapes <, > and & so the payload cannot close the
// script element.
func RenderPage(w io.Writer, events []model.Event, seasons []season.Range) error {
	if events == nil {
		events = []model.Event{}
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	data := pageData{
		Events:    events,
		Seasons:   seasons,
		ElementID: source.EmbeddedElementID,
		Payload:   template.JS(payload), //nolint:gosec // JSON marshalled with HTML escaping
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}
