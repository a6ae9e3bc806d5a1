package domain

import (
	"fmt"
	"time"
)

// displayLayout renders "02/01 15h", the caption format used on every frame.
const displayLayout = "02/01 15h"

// TimeLabel is the localized caption for one time step.
type TimeLabel struct {
	// Display is the formatted local day/month and hour, e.g. "01/06 20h".
	Display string
	// Weekday is the local weekday abbreviation, e.g. "Sat".
	Weekday string
	// Local is the full local instant, kept for tests and log context.
	Local time.Time
}

// ParseReference builds the run's initialization instant from a validated
// calendar date and cycle hour in the given source zone.
func ParseReference(date string, hour int, src *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, src)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse reference date: %w", err)
	}
	if hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("reference hour %d outside 0-23", hour)
	}
	return day.Add(time.Duration(hour) * time.Hour), nil
}

// AlignTimes maps n consecutive hourly time steps starting at ref to display
// labels in the target zone. Step i is exactly i hours after ref; the labels
// reflect the target zone's offset in effect at each instant, so DST
// transitions show up as a skipped or repeated local hour.
func AlignTimes(ref time.Time, n int, target *time.Location) []TimeLabel {
	labels := make([]TimeLabel, 0, n)
	for i := 0; i < n; i++ {
		local := ref.Add(time.Duration(i) * time.Hour).In(target)
		labels = append(labels, TimeLabel{
			Display: local.Format(displayLayout),
			Weekday: local.Format("Mon"),
			Local:   local,
		})
	}
	return labels
}

// Caption is the full frame caption, e.g. "Dia 01/06 20h (Sat)".
func (l TimeLabel) Caption() string {
	return fmt.Sprintf("Dia %s (%s)", l.Display, l.Weekday)
}
