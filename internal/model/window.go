package model

import (
	"errors"
	"fmt"
	"time"
)

// InputDateLayout is the layout of window bounds on the command line.
const InputDateLayout = "2006-01-02"

// DateWindow is a closed interval of unix seconds.
type DateWindow struct {
	Start int64
	End   int64
}

// ParseDateWindow converts two YYYY-MM-DD dates into a window. Both bounds
// are midnight of the given day in loc, so posts published later on the
// end day fall outside the window.
func ParseDateWindow(start, end string, loc *time.Location) (DateWindow, error) {
	if loc == nil {
		loc = time.Local
	}
	s, err := time.ParseInLocation(InputDateLayout, start, loc)
	if err != nil {
		return DateWindow{}, fmt.Errorf("start date: %w", err)
	}
	e, err := time.ParseInLocation(InputDateLayout, end, loc)
	if err != nil {
		return DateWindow{}, fmt.Errorf("end date: %w", err)
	}
	if e.Before(s) {
		return DateWindow{}, errors.New("end date is before start date")
	}
	return DateWindow{Start: s.Unix(), End: e.Unix()}, nil
}

// Contains reports whether ts lies in [Start, End].
func (w DateWindow) Contains(ts int64) bool { return ts >= w.Start && ts <= w.End }

// Newer reports whether ts is past the end of the window.
func (w DateWindow) Newer(ts int64) bool { return ts > w.End }

// Older reports whether ts precedes the start of the window.
func (w DateWindow) Older(ts int64) bool { return ts < w.Start }
