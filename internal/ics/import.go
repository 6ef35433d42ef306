package ics

import (
	"contentcal/internal/calendar"
	appLog "contentcal/internal/log"
	"contentcal/internal/model"
)

// ImportResult summarizes one ICS import.
type ImportResult struct {
	Imported []model.ContentItem `json:"imported"`
	Rejected []Rejection         `json:"rejected,omitempty"`
}

// Rejection is an event the controller refused.
type Rejection struct {
	Index  int    `json:"index"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// Import parses body and schedules every event on ctrl in the controller's
// location. Events failing validation are reported, not fatal; only a
// malformed payload returns an error.
func Import(ctrl *calendar.Controller, src string, body []byte) (ImportResult, error) {
	reqs, err := Parse(src, body, ctrl.Location())
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Imported: make([]model.ContentItem, 0, len(reqs))}
	for i, req := range reqs {
		item, err := ctrl.ScheduleContent(req)
		if err != nil {
			rej := Rejection{Index: i, Reason: err.Error()}
			if verr, ok := calendar.AsValidationError(err); ok {
				rej.Field = verr.Field
			}
			res.Rejected = append(res.Rejected, rej)
			continue
		}
		res.Imported = append(res.Imported, item)
	}

	appLog.Info("ics import completed",
		"src", redactURL(src),
		"imported", len(res.Imported),
		"rejected", len(res.Rejected),
	)
	return res, nil
}
