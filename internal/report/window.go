package report

import (
	"fmt"
	"time"
)

// Window is a Monday-to-Sunday reporting window.
type Window struct {
	Start time.Time // Monday, midnight
	End   time.Time // the following Sunday, midnight
}

// PreviousWeek returns the full calendar week immediately preceding the week
// that contains now.
func PreviousWeek(now time.Time) Window {
	sinceMonday := (int(now.Weekday()) + 6) % 7
	thisMonday := time.Date(now.Year(), now.Month(), now.Day()-sinceMonday, 0, 0, 0, 0, now.Location())
	start := thisMonday.AddDate(0, 0, -7)
	return Window{Start: start, End: start.AddDate(0, 0, 6)}
}

// StartDate renders the window start in the date format JQL expects.
func (w Window) StartDate() string { return w.Start.Format("2006-01-02") }

// EndDate renders the window end in the date format JQL expects.
func (w Window) EndDate() string { return w.End.Format("2006-01-02") }

// StartDisplay renders the window start for the report header.
func (w Window) StartDisplay() string { return w.Start.Format("January 02") }

// EndDisplay renders the window end for the report header.
func (w Window) EndDisplay() string { return w.End.Format("January 02, 2006") }

// Range renders the whole window as a single string.
func (w Window) Range() string {
	return fmt.Sprintf("%s to %s", w.StartDate(), w.EndDate())
}
