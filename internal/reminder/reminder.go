// Package reminder announces content whose scheduled time is coming up.
//
// A Scheduler runs on a cron spec. Each tick looks at the window
// [now, now+lookahead) and hands every occurrence it has not announced yet
// to a Notifier.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "contentcal/internal/log"
	"contentcal/internal/model"
)

// Source supplies scheduled occurrences in [from, to). Implementations
// must be safe to call from the cron goroutine.
type Source interface {
	DueBetween(from, to time.Time) []model.ContentItem
}

// Notifier receives each due occurrence once.
type Notifier interface {
	Notify(ctx context.Context, item model.ContentItem) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, item model.ContentItem) error

func (f NotifierFunc) Notify(ctx context.Context, item model.ContentItem) error {
	return f(ctx, item)
}

// LogNotifier writes a "content due" log line.
var LogNotifier = NotifierFunc(func(_ context.Context, item model.ContentItem) error {
	appLog.Info("content due",
		"id", item.ID,
		"platform", item.Platform,
		"at", item.ScheduledAt(),
		"caption", item.Caption,
	)
	return nil
})

// Scheduler drives reminder ticks.
type Scheduler struct {
	spec      string
	schedule  cron.Schedule
	lookahead time.Duration
	src       Source
	notifier  Notifier
	now       func() time.Time

	// OnNotify, if set, is called after each successful notification.
	OnNotify func(model.ContentItem)

	mu        sync.Mutex
	announced map[string]time.Time
}

// New validates spec (standard 5-field cron) and builds a Scheduler.
// A nil notifier uses LogNotifier.
func New(spec string, lookahead time.Duration, src Source, notifier Notifier) (*Scheduler, error) {
	if src == nil {
		return nil, errors.New("reminder: source is nil")
	}
	if lookahead <= 0 {
		return nil, errors.New("reminder: lookahead must be positive")
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("reminder: invalid cron spec %q: %w", spec, err)
	}
	if notifier == nil {
		notifier = LogNotifier
	}
	return &Scheduler{
		spec:      spec,
		schedule:  schedule,
		lookahead: lookahead,
		src:       src,
		notifier:  notifier,
		now:       time.Now,
		announced: make(map[string]time.Time),
	}, nil
}

// SetClock overrides the time source; intended for tests.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// NextRun reports when the schedule fires next after t.
func (s *Scheduler) NextRun(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Tick announces every not-yet-announced occurrence due within the
// lookahead window and returns how many were announced.
func (s *Scheduler) Tick(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)

	sent := 0
	for _, item := range s.src.DueBetween(now, now.Add(s.lookahead)) {
		key := occurrenceKey(item)
		if _, done := s.announced[key]; done {
			continue
		}
		if err := s.notifier.Notify(ctx, item); err != nil {
			appLog.Error("reminder notify failed", err, "id", item.ID)
			continue
		}
		s.announced[key] = item.ScheduledAt()
		sent++
		if s.OnNotify != nil {
			s.OnNotify(item)
		}
	}
	if sent > 0 {
		appLog.Debug("reminder tick", "sent", sent)
	}
	return sent
}

// Start runs ticks on the cron schedule until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	c := cron.New()
	c.Schedule(s.schedule, cron.FuncJob(func() { s.Tick(ctx) }))
	c.Start()
	appLog.Info("reminder scheduler started", "cron", s.spec, "lookahead", s.lookahead.String())

	<-ctx.Done()
	<-c.Stop().Done()
	appLog.Info("reminder scheduler stopped")
}

// prune forgets occurrences that are already in the past.
func (s *Scheduler) prune(now time.Time) {
	for key, at := range s.announced {
		if at.Before(now) {
			delete(s.announced, key)
		}
	}
}

func occurrenceKey(item model.ContentItem) string {
	return item.ID + "@" + item.ScheduledAt().UTC().Format(time.RFC3339)
}
