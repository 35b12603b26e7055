package schedule

import (
	"fmt"
	"time"
)

const (
	day  = 24 * time.Hour
	Week = 7 * day
)

// Spec describes a fixed-interval schedule anchored at Sunday 00:00 in Location.
// Sub-day intervals fire at anchor + Offset + k*Interval. Daily and weekly
// intervals fire at the Offset wall-clock time on local calendar days, so they
// keep their local hour across daylight-saving changes.
type Spec struct {
	Interval time.Duration
	Offset   time.Duration
	Location *time.Location
}

func Every(interval time.Duration) Spec {
	return Spec{Interval: interval, Location: time.UTC}
}

func Daily(offset time.Duration, loc *time.Location) Spec {
	return Spec{Interval: day, Offset: offset, Location: loc}
}

func Weekly(offset time.Duration, loc *time.Location) Spec {
	return Spec{Interval: Week, Offset: offset, Location: loc}
}

func (s Spec) Validate() error {
	if s.Interval <= 0 {
		return fmt.Errorf("schedule interval must be > 0")
	}
	if Week%s.Interval != 0 {
		return fmt.Errorf("schedule interval %s must divide %s", s.Interval, Week)
	}
	if s.Offset < 0 || s.Offset >= Week {
		return fmt.Errorf("schedule offset %s must be within [0, %s)", s.Offset, Week)
	}
	return nil
}

// Next returns the first fire instant strictly after the given time.
func (s Spec) Next(after time.Time) time.Time {
	loc := s.location()
	local := after.In(loc)
	if s.calendar() {
		for delta := 0; delta <= 7; delta++ {
			if fire, ok := s.fireOn(local, delta); ok && fire.After(after) {
				return fire
			}
		}
	}

	anchor := weekStart(local).Add(s.Offset % s.Interval)
	if anchor.After(local) {
		anchor = anchor.Add(-s.Interval * ((anchor.Sub(local) / s.Interval) + 1))
	}
	steps := local.Sub(anchor)/s.Interval + 1
	return anchor.Add(steps * s.Interval)
}

// Prev returns the latest fire instant at or before the given time.
func (s Spec) Prev(at time.Time) time.Time {
	if s.calendar() {
		local := at.In(s.location())
		for delta := 0; delta >= -7; delta-- {
			if fire, ok := s.fireOn(local, delta); ok && !fire.After(at) {
				return fire
			}
		}
	}

	next := s.Next(at)
	return next.Add(-s.Interval)
}

func (s Spec) calendar() bool {
	return s.Interval > 0 && s.Interval%day == 0
}

// fireOn reports the fire instant on the calendar day delta days from local,
// if the schedule fires that day.
func (s Spec) fireOn(local time.Time, delta int) (time.Time, bool) {
	y, m, d := local.Date()
	date := time.Date(y, m, d+delta, 0, 0, 0, 0, local.Location())
	if s.Interval == Week && int(date.Weekday()) != int(s.Offset/day) {
		return time.Time{}, false
	}

	wall := s.Offset % day
	hour := int(wall / time.Hour)
	minute := int(wall % time.Hour / time.Minute)
	sec := int(wall % time.Minute / time.Second)
	nsec := int(wall % time.Second)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, sec, nsec, local.Location()), true
}

func (s Spec) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}
