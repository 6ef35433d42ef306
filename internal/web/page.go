package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"contentcal/internal/calendar"
	appLog "contentcal/internal/log"
	"contentcal/internal/platform"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFuncs = template.FuncMap{
	// color is only ever fed registry values, so it is safe as CSS.
	"color": func(name string) template.CSS {
		return template.CSS(platform.ColorOf(name))
	},
	"blanks": func(n int) []struct{} {
		if n < 0 {
			n = 0
		}
		return make([]struct{}, n)
	},
}

var calendarPage = template.Must(
	template.New("calendar.html").Funcs(pageFuncs).ParseFS(templateFS, "templates/calendar.html"),
)

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type pageData struct {
	View     calendar.ViewModel
	Weekdays []string
}

// handleCalendarPage renders a view as a static HTML page. It accepts the
// same read-only mode/date query as /api/view and is what `snapshot`
// captures; the body carries data-ready="true" once rendered.
func (s *Server) handleCalendarPage(w http.ResponseWriter, r *http.Request) {
	vm, ok := s.queryView(w, r)
	if !ok {
		return
	}
	data := pageData{View: vm, Weekdays: weekdays}

	var buf bytes.Buffer
	if err := calendarPage.Execute(&buf, data); err != nil {
		appLog.Error("calendar page render failed", err)
		http.Error(w, "failed to render calendar", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
