package calendar

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	appLog "contentcal/internal/log"
	"contentcal/internal/model"
	"contentcal/internal/platform"
)

// Default hour slots shown in week view (06:00 through 22:00).
const (
	DefaultSlotStartHour = 6
	DefaultSlotEndHour   = 22
)

// ScheduleRequest is the input of Controller.ScheduleContent. Date is a
// calendar day; only its year, month and day are used. Time is "HH:MM".
type ScheduleRequest struct {
	Date       time.Time `json:"date"`
	Time       string    `json:"time" validate:"required,clock"`
	Platform   string    `json:"platform" validate:"required,nonblank,max=64"`
	Caption    string    `json:"caption" validate:"max=5000"`
	CoverRef   string    `json:"cover_ref,omitempty" validate:"max=2048"`
	Recurrence string    `json:"recurrence,omitempty" validate:"omitempty,rrule"`
}

// Controller holds the calendar's view state and content. It is the single
// entry point for a presentation layer. Not safe for concurrent use.
type Controller struct {
	loc   *time.Location
	now   func() time.Time
	newID func() string

	mode   model.ViewMode
	anchor time.Time
	index  *Index

	slotStart int
	slotEnd   int

	validate *validator.Validate
}

// Option configures a Controller.
type Option func(*Controller)

// WithLocation sets the display location used for calendar days and "today".
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock overrides the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAnchor sets the initial anchor date (default: today).
func WithAnchor(t time.Time) Option {
	return func(c *Controller) { c.anchor = t }
}

// WithMode sets the initial view mode (default: month).
func WithMode(m model.ViewMode) Option {
	return func(c *Controller) { c.mode = m }
}

// WithSlotHours sets the inclusive hour range of week view slots.
func WithSlotHours(start, end int) Option {
	return func(c *Controller) {
		if start >= 0 && end <= 23 && start <= end {
			c.slotStart, c.slotEnd = start, end
		}
	}
}

// WithIDGenerator overrides item ID generation (default: random UUID).
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// NewController returns a controller in month view anchored on today.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		loc:       time.Local,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
		mode:      model.ViewMonth,
		index:     NewIndex(),
		slotStart: DefaultSlotStartHour,
		slotEnd:   DefaultSlotEndHour,
		validate:  newValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.anchor.IsZero() {
		c.anchor = c.today()
	} else {
		c.anchor = c.dayIn(c.anchor)
	}
	return c
}

func (c *Controller) Mode() model.ViewMode { return c.mode }
func (c *Controller) Anchor() time.Time    { return c.anchor }
func (c *Controller) Location() *time.Location {
	return c.loc
}

// Index exposes the content collection for read-only consumers (export,
// reminders). Callers must not Add to it directly.
func (c *Controller) Index() *Index { return c.index }

// SetMode switches the view mode; the anchor is unchanged.
func (c *Controller) SetMode(m model.ViewMode) {
	c.mode = m
}

// SetAnchor moves the anchor to the calendar day of t.
func (c *Controller) SetAnchor(t time.Time) {
	c.anchor = c.dayIn(t)
}

func (c *Controller) GoPrevious() {
	c.anchor = Step(c.mode, c.anchor, model.Previous)
}

func (c *Controller) GoNext() {
	c.anchor = Step(c.mode, c.anchor, model.Next)
}

// GoToday re-anchors the view on the current day.
func (c *Controller) GoToday() {
	c.anchor = c.today()
}

func (c *Controller) Title() string {
	return Title(c.mode, c.anchor)
}

// ScheduleContent validates req, assigns an ID and appends the new item.
// Rejections are *ValidationError.
func (c *Controller) ScheduleContent(req ScheduleRequest) (model.ContentItem, error) {
	if req.Date.IsZero() {
		return model.ContentItem{}, &ValidationError{Field: "date", Reason: "is required"}
	}
	if err := c.validate.Struct(req); err != nil {
		return model.ContentItem{}, toValidationError(err)
	}
	clock, err := model.ParseClock(req.Time)
	if err != nil {
		return model.ContentItem{}, &ValidationError{Field: "time", Reason: err.Error()}
	}

	item := model.ContentItem{
		ID:         c.newID(),
		Platform:   platform.Canonical(req.Platform),
		Date:       c.dayIn(req.Date),
		Time:       clock,
		Caption:    req.Caption,
		CoverRef:   req.CoverRef,
		Recurrence: trimRulePrefix(req.Recurrence),
	}
	c.index.Add(item)

	appLog.Debug("content scheduled",
		"id", item.ID,
		"platform", item.Platform,
		"at", item.ScheduledAt(),
		"recurring", item.IsRecurring(),
	)
	return item, nil
}

// Items returns all scheduled items in insertion order.
func (c *Controller) Items() []model.ContentItem {
	return c.index.All()
}

func (c *Controller) today() time.Time {
	return model.DateOf(c.now(), c.loc)
}

// dayIn keeps t's year, month and day and returns the start of that day in
// the controller's location. The caller's zone never shifts the day.
func (c *Controller) dayIn(t time.Time) time.Time {
	y, m, d := t.Date()
	return model.StartOfDay(y, m, d, c.loc)
}
