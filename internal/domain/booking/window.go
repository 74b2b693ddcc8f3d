package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWindow = errors.New("start time must be before end time")

// TimeWindow is a half-open interval [start, end).
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, ErrInvalidWindow
	}
	return TimeWindow{start: start, end: end}, nil
}

func (w TimeWindow) Start() time.Time {
	return w.start
}

func (w TimeWindow) End() time.Time {
	return w.end
}

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

func (w TimeWindow) Minutes() int {
	return int(w.Duration().Minutes())
}

// Buffered widens the window by d on each side. Used to enforce turnaround
// time between consecutive bookings on the same charger.
func (w TimeWindow) Buffered(d time.Duration) TimeWindow {
	return TimeWindow{start: w.start.Add(-d), end: w.end.Add(d)}
}

// Overlaps reports whether two half-open intervals intersect:
// w.start < o.end && w.end > o.start. Touching endpoints do not overlap.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.start.Before(o.end) && w.end.After(o.start)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}
