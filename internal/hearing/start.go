package hearing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StartLayout is the combined "date time" layout shown on the calendar page,
// e.g. "11/12/2025 2:00 PM". Month, day and hour may or may not be zero padded.
const StartLayout = "1/2/2006 3:04 PM"

// ErrUnparseableStart is returned when a case's date and time do not match StartLayout.
var ErrUnparseableStart = errors.New("unparseable hearing date/time")

// ParseStart combines a displayed date and time into the hearing's start instant in loc.
// A nil loc means UTC.
func ParseStart(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	// the PM layout element only matches upper case
	value := strings.TrimSpace(date) + " " + strings.ToUpper(strings.TrimSpace(clock))
	t, err := time.ParseInLocation(StartLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableStart, value)
	}
	return t, nil
}

// Start returns the hearing's start instant in loc.
func (c Case) Start(loc *time.Location) (time.Time, error) {
	return ParseStart(c.Date, c.Time, loc)
}
