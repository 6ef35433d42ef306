package calendar

import (
	"time"

	"contentcal/internal/model"
)

// Cell is one rendered day with its resolved content.
type Cell struct {
	Date            time.Time           `json:"date"`
	IsToday         bool                `json:"is_today"`
	InCurrentPeriod bool                `json:"in_current_period"`
	Items           []model.ContentItem `json:"items"`
}

// SlotCell is one day column of a week view hour row.
type SlotCell struct {
	Date  time.Time           `json:"date"`
	Items []model.ContentItem `json:"items"`
}

// HourSlot is one week view row.
type HourSlot struct {
	Hour  int        `json:"hour"`
	Cells []SlotCell `json:"cells"`
}

// MonthView is one month bucket of the year view.
type MonthView struct {
	Month time.Time `json:"month"`
	Title string    `json:"title"`
	Cells []Cell    `json:"cells"`
}

// ViewModel is everything a presentation layer needs to draw the current
// view. It is derived on every call and never cached.
//
// Days is set for day, week and month views. Month views leave padding to
// the renderer via LeadingBlanks/TrailingBlanks. Week views also fill Slots;
// year views fill Months instead of Days.
type ViewModel struct {
	Mode   model.ViewMode `json:"mode"`
	Anchor time.Time      `json:"anchor"`
	Title  string         `json:"title"`
	Today  time.Time      `json:"today"`

	Days           []Cell      `json:"days,omitempty"`
	LeadingBlanks  int         `json:"leading_blanks"`
	TrailingBlanks int         `json:"trailing_blanks"`
	Slots          []HourSlot  `json:"slots,omitempty"`
	Months         []MonthView `json:"months,omitempty"`
}

// ViewModel resolves the current view's days and content.
func (c *Controller) ViewModel() ViewModel {
	return c.ViewModelAt(c.mode, c.anchor)
}

// ViewModelAt resolves mode at anchor's calendar day without touching the
// controller's own mode or anchor.
func (c *Controller) ViewModelAt(mode model.ViewMode, anchor time.Time) ViewModel {
	anchor = c.dayIn(anchor)
	today := c.today()
	vm := ViewModel{
		Mode:   mode,
		Anchor: anchor,
		Title:  Title(mode, anchor),
		Today:  today,
	}

	switch mode {
	case model.ViewYear:
		for _, grid := range YearFor(anchor) {
			vm.Months = append(vm.Months, MonthView{
				Month: grid.Month,
				Title: grid.Month.Format("January"),
				Cells: c.cells(grid.Days, today, func(d time.Time) bool {
					return d.Month() == grid.Month.Month()
				}),
			})
		}
	case model.ViewMonth:
		vm.Days = c.cells(DaysFor(mode, anchor), today, inPeriod)
		vm.LeadingBlanks, vm.TrailingBlanks = MonthPadding(anchor)
	case model.ViewWeek:
		days := DaysFor(mode, anchor)
		vm.Days = c.cells(days, today, inPeriod)
		vm.Slots = c.slots(days)
	default:
		vm.Days = c.cells(DaysFor(model.ViewDay, anchor), today, inPeriod)
	}
	return vm
}

// inPeriod is used for views whose days are in-period by construction.
func inPeriod(time.Time) bool { return true }

func (c *Controller) cells(days []time.Time, today time.Time, current func(time.Time) bool) []Cell {
	out := make([]Cell, 0, len(days))
	for _, d := range days {
		out = append(out, Cell{
			Date:            d,
			IsToday:         model.SameDay(d, today),
			InCurrentPeriod: current(d),
			Items:           c.index.ItemsOnDate(d),
		})
	}
	return out
}

func (c *Controller) slots(days []time.Time) []HourSlot {
	out := make([]HourSlot, 0, c.slotEnd-c.slotStart+1)
	for h := c.slotStart; h <= c.slotEnd; h++ {
		row := HourSlot{Hour: h, Cells: make([]SlotCell, 0, len(days))}
		for _, d := range days {
			row.Cells = append(row.Cells, SlotCell{Date: d, Items: c.index.ItemsOnDateAtHour(d, h)})
		}
		out = append(out, row)
	}
	return out
}
