package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"contentcal/internal/calendar"
	"contentcal/internal/ics"
	appLog "contentcal/internal/log"
	"contentcal/internal/model"
	"contentcal/internal/platform"
)

// maxBodyBytes caps JSON and ICS request bodies.
const maxBodyBytes = 8 << 20

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/view", s.handleView)
	s.mux.HandleFunc("POST /api/view", s.handleSetView)
	s.mux.HandleFunc("POST /api/view/mode", s.handleSetMode)
	s.mux.HandleFunc("POST /api/view/previous", s.handleNavigate(model.Previous))
	s.mux.HandleFunc("POST /api/view/next", s.handleNavigate(model.Next))
	s.mux.HandleFunc("POST /api/view/today", s.handleToday)

	s.mux.HandleFunc("GET /api/content", s.handleListContent)
	s.mux.HandleFunc("POST /api/content", s.handleScheduleContent)
	s.mux.HandleFunc("GET /api/platforms", s.handlePlatforms)
	s.mux.HandleFunc("POST /api/import", s.handleImport)

	s.mux.HandleFunc("GET /calendar.ics", s.handleICS)
	s.mux.HandleFunc("GET /calendar", s.handleCalendarPage)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleView returns a view model. Without a query it is the shared view;
// the query renders another mode or day without moving the shared state.
//
// GET /api/view?mode=week&date=2024-03-15
//   - mode: view mode to render (optional)
//   - date: anchor day to render (optional)
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	vm, ok := s.queryView(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

// queryView resolves the optional mode/date query against a copy of the
// shared mode and anchor. It writes a 400 and returns false on bad input.
func (s *Server) queryView(w http.ResponseWriter, r *http.Request) (calendar.ViewModel, bool) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	mode, anchor := s.ctrl.Mode(), s.ctrl.Anchor()
	if v := q.Get("mode"); v != "" {
		m, err := model.ParseViewMode(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error(), Field: "mode"})
			return calendar.ViewModel{}, false
		}
		mode = m
	}
	if v := q.Get("date"); v != "" {
		d, err := model.ParseDate(v, s.ctrl.Location())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error(), Field: "date"})
			return calendar.ViewModel{}, false
		}
		anchor = d
	}
	return s.ctrl.ViewModelAt(mode, anchor), true
}

// setViewRequest is the wire shape of POST /api/view. Both fields are
// optional; empty ones leave that part of the shared view alone.
type setViewRequest struct {
	Mode string `json:"mode"`
	Date string `json:"date"`
}

// handleSetView moves the shared view to the requested mode and day.
func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req setViewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var mode model.ViewMode
	if req.Mode != "" {
		m, err := model.ParseViewMode(req.Mode)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error(), Field: "mode"})
			return
		}
		mode = m
	}
	var anchor time.Time
	if req.Date != "" {
		d, err := model.ParseDate(req.Date, s.ctrl.Location())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error(), Field: "date"})
			return
		}
		anchor = d
	}

	if mode != "" {
		s.ctrl.SetMode(mode)
	}
	if !anchor.IsZero() {
		s.ctrl.SetAnchor(anchor)
	}
	writeJSON(w, http.StatusOK, s.ctrl.ViewModel())
}

type setModeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req setModeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := model.ParseViewMode(req.Mode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error(), Field: "mode"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.SetMode(mode)
	writeJSON(w, http.StatusOK, s.ctrl.ViewModel())
}

func (s *Server) handleNavigate(dir model.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if dir == model.Previous {
			s.ctrl.GoPrevious()
		} else {
			s.ctrl.GoNext()
		}
		appLog.Debug("view navigated", "direction", dir.String(), "anchor", s.ctrl.Anchor())
		writeJSON(w, http.StatusOK, s.ctrl.ViewModel())
	}
}

func (s *Server) handleToday(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.GoToday()
	writeJSON(w, http.StatusOK, s.ctrl.ViewModel())
}

func (s *Server) handleListContent(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := s.ctrl.Items()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

// contentRequest is the wire shape of POST /api/content.
type contentRequest struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Platform   string `json:"platform"`
	Caption    string `json:"caption"`
	CoverRef   string `json:"cover_ref"`
	Recurrence string `json:"recurrence"`
}

func (s *Server) handleScheduleContent(w http.ResponseWriter, r *http.Request) {
	var body contentRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req := calendar.ScheduleRequest{
		Time:       body.Time,
		Platform:   body.Platform,
		Caption:    body.Caption,
		CoverRef:   body.CoverRef,
		Recurrence: body.Recurrence,
	}
	if body.Date != "" {
		d, err := model.ParseDate(body.Date, s.ctrl.Location())
		if err != nil {
			s.metrics.ValidationRejections.WithLabelValues("date").Inc()
			writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error(), Field: "date"})
			return
		}
		req.Date = d
	}

	item, err := s.ctrl.ScheduleContent(req)
	if err != nil {
		s.writeScheduleError(w, err)
		return
	}

	s.metrics.ContentScheduled.WithLabelValues(item.Platform).Inc()
	s.metrics.ContentItems.Set(float64(s.ctrl.Index().Len()))
	appLog.Info("content scheduled via api", "id", item.ID, "platform", item.Platform)
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) writeScheduleError(w http.ResponseWriter, err error) {
	if verr, ok := calendar.AsValidationError(err); ok {
		s.metrics.ValidationRejections.WithLabelValues(verr.Field).Inc()
		writeJSON(w, http.StatusBadRequest, errResp{Error: verr.Error(), Field: verr.Field})
		return
	}
	appLog.Error("schedule content failed", err)
	writeError(w, http.StatusInternalServerError, "failed to schedule content")
}

func (s *Server) handlePlatforms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, platform.Known())
}

// handleImport schedules every VEVENT of an ICS request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := ics.Import(s.ctrl, "api:import", body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ICS payload: "+err.Error())
		return
	}
	for _, item := range res.Imported {
		s.metrics.ContentScheduled.WithLabelValues(item.Platform).Inc()
	}
	for _, rej := range res.Rejected {
		s.metrics.ValidationRejections.WithLabelValues(rej.Field).Inc()
	}
	s.metrics.ContentItems.Set(float64(s.ctrl.Index().Len()))
	writeJSON(w, http.StatusOK, res)
}

// handleICS serves every scheduled item as an iCalendar feed.
func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := s.ctrl.Items()
	s.mu.Unlock()

	body := ics.Export(items, ics.ExportOptions{})
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="contentcal.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}
