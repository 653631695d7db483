// Package slot maps slot indexes to today's wall-clock windows.
//
// Slot i starts at (base + i):00 in the application timezone and lasts one hour, so with the
// default base hour of 17 slot 1 is 18:00-19:00 and slot 4 is 21:00-22:00.
package slot

import (
	"time"

	"campus/config"
	"campus/internal/domains/booking/model"
	"campus/shared/timezone"
)

const (
	Duration = time.Hour
)

type Window struct {
	Index int       `json:"slot"`
	Start time.Time `json:"start_at"`
	End   time.Time `json:"end_at"`
}

type Resolver struct {
	baseHour int
	count    int
	clock    timezone.Clock
}

func New(baseHour, count int, clock timezone.Clock) *Resolver {
	return &Resolver{
		baseHour: baseHour,
		count:    count,
		clock:    clock,
	}
}

func NewResolver(cfg *config.Config, clock timezone.Clock) *Resolver {
	return New(cfg.Reservation.SlotBaseHour, cfg.Reservation.SlotCount, clock)
}

// Resolve returns today's window for index. Out of range indexes fail, they are never clamped.
func (r *Resolver) Resolve(index int) (Window, error) {
	if index < 1 || index > r.count {
		return Window{}, model.ErrInvalidSlot
	}

	today := r.StartOfToday()
	start := time.Date(today.Year(), today.Month(), today.Day(), r.baseHour+index, 0, 0, 0, today.Location())

	return Window{
		Index: index,
		Start: start,
		End:   start.Add(Duration),
	}, nil
}

// IndexOf projects a stored start instant back to its slot index.
func (r *Resolver) IndexOf(start time.Time) int {
	return timezone.ToAppTime(start).Hour() - r.baseHour
}

func (r *Resolver) StartOfToday() time.Time {
	return timezone.StartOfDay(r.clock.Now())
}

// Today returns [start of today, start of tomorrow).
func (r *Resolver) Today() (time.Time, time.Time) {
	from := r.StartOfToday()

	return from, from.AddDate(0, 0, 1)
}

func (r *Resolver) Count() int {
	return r.count
}

func (r *Resolver) Now() time.Time {
	return r.clock.Now()
}
