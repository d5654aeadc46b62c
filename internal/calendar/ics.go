package calendar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/logger"
)

const (
	ProdID          = "-//Court Scheduling//Court Hearing//EN"
	UIDDomain       = "court-scheduling"
	DefaultTimezone = "America/Denver"
	DefaultEmail    = "attorney@dexterlaw.com"

	// Duration is the assumed length of every hearing.
	Duration = time.Hour
	// ReminderTrigger fires the alarm 24 hours before the hearing.
	ReminderTrigger = "-PT24H"

	notAvailable   = "N/A"
	summarySep     = " – "
	icsTimeLayout  = "20060102T150405"
	lineTerminator = "\r\n"
)

// Annotations are user-supplied values applied to every event of a document.
type Annotations struct {
	// ReferenceLink is shown at the top of the description, e.g. a case management link.
	ReferenceLink string `json:"reference_link,omitempty" yaml:"reference_link"`
	// ContactEmail replaces DefaultEmail in the description when non-empty.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email"`
}

// Encoder converts cases to calendar events.
type Encoder struct {
	// Location is the court-local time zone the displayed date and time are read in.
	Location *time.Location
	// Now supplies DTSTAMP.
	Now func() time.Time
}

// NewEncoder creates an encoder for the given court time zone. A nil loc selects
// DefaultTimezone.
func NewEncoder(loc *time.Location) *Encoder {
	if loc == nil {
		loc = DefaultLocation()
	}
	return &Encoder{Location: loc, Now: time.Now}
}

// DefaultLocation returns the court-local time zone, falling back to UTC.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (e *Encoder) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

func (e *Encoder) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Event renders a single VEVENT block for a case. It returns an error wrapping
// hearing.ErrUnparseableStart when the case's date and time cannot be parsed.
func (e *Encoder) Event(c hearing.Case, ann Annotations) (string, error) {
	start, err := c.Start(e.location())
	if err != nil {
		return "", err
	}
	end := start.Add(Duration)

	caseNumber := c.CaseNumber
	if caseNumber == "" {
		caseNumber = "unknown"
	}

	location := c.Location()
	if location == "" {
		location = notAvailable
	}

	var ics strings.Builder
	writeLine(&ics, "BEGIN:VEVENT")
	writeLine(&ics, fmt.Sprintf("UID:%s-%d@%s", caseNumber, start.UnixMilli(), UIDDomain))
	writeLine(&ics, "DTSTAMP:"+formatICSTime(e.now().In(e.location())))
	writeLine(&ics, "DTSTART:"+formatICSTime(start))
	writeLine(&ics, "DTEND:"+formatICSTime(end))
	writeLine(&ics, "SUMMARY:"+escapeICS(Summary(c)))
	writeLine(&ics, "DESCRIPTION:"+escapeICS(Description(ann)))
	writeLine(&ics, "LOCATION:"+escapeICS(location))
	writeLine(&ics, "STATUS:CONFIRMED")
	writeLine(&ics, "SEQUENCE:0")
	writeLine(&ics, "BEGIN:VALARM")
	writeLine(&ics, "TRIGGER:"+ReminderTrigger)
	writeLine(&ics, "ACTION:DISPLAY")
	writeLine(&ics, "DESCRIPTION:"+escapeICS("Hearing reminder - 24 hours before"))
	writeLine(&ics, "END:VALARM")
	writeLine(&ics, "END:VEVENT")

	return ics.String(), nil
}

// Document renders a complete calendar holding one event per parseable case and
// returns it with the number of cases that were skipped.
func (e *Encoder) Document(cases []hearing.Case, ann Annotations) (string, int) {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+ProdID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")

	skipped := 0
	for _, c := range cases {
		event, err := e.Event(c, ann)
		if err != nil {
			skipped++
			logger.Warn("Skipping case with unparseable date/time", logger.Fields{
				"case_number": c.CaseNumber,
				"date":        c.Date,
				"time":        c.Time,
			})
			continue
		}
		ics.WriteString(event)
	}

	writeLine(&ics, "END:VCALENDAR")

	if skipped > 0 {
		logger.AddCounter("calendar.skipped", int64(skipped))
	}
	return ics.String(), skipped
}

// WriteCaseFiles writes one calendar file per case into dir, named by CaseFilename,
// and returns the paths written. Cases with an unparseable date/time get no file.
func (e *Encoder) WriteCaseFiles(dir string, cases []hearing.Case, ann Annotations) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	paths := make([]string, 0, len(cases))
	for _, c := range cases {
		if _, err := e.Event(c, ann); err != nil {
			if errors.Is(err, hearing.ErrUnparseableStart) {
				logger.Warn("Skipping calendar file for case", logger.Fields{
					"case_number": c.CaseNumber,
					"date":        c.Date,
					"time":        c.Time,
				})
				continue
			}
			return paths, err
		}

		doc, _ := e.Document([]hearing.Case{c}, ann)
		path := filepath.Join(dir, CaseFilename(c))
		if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Summary builds the event title: defendant, hearing mode, purpose, court, judge,
// case number and attorney, with "N/A" for anything missing.
func Summary(c hearing.Case) string {
	mode := "IN PERSON"
	if c.IsVirtual() {
		mode = "VIRTUAL"
	}

	court := c.Court
	if i := strings.Index(court, " - "); i >= 0 {
		court = court[:i]
	}

	judge := notAvailable
	if last := lastToken(c.Judge); last != "" {
		judge = last
	}

	parts := []string{
		orNA(firstToken(c.Defendant)),
		mode,
		orNA(strings.TrimSpace(c.HearingPurpose)),
		orNA(strings.TrimSpace(court)),
		"J." + judge,
		orNA(strings.TrimSpace(c.CaseNumber)),
		orNA(firstToken(c.Attorney)),
	}
	return strings.Join(parts, summarySep)
}

// Description is the fixed notice attached to every event.
func Description(ann Annotations) string {
	link := strings.TrimSpace(ann.ReferenceLink)
	if link == "" {
		link = notAvailable
	}
	email := strings.TrimSpace(ann.ContactEmail)
	if email == "" {
		email = DefaultEmail
	}

	lines := []string{
		"RESTRICTED LINK FOR DEXTER LAW INTERNAL USE ONLY",
		link,
		"",
		"---",
		"",
		"Hello,",
		"",
		"This is a reminder of your upcoming Court appearance. Please confirm your attendance.",
		"",
		"For questions, concerns, and technical difficulties you can call or text the number 801-225-9900 or email your primary attorney at " + email + " and cc assistant Andrew@DexterLaw.com",
		"",
		"If you have a conflict that may prevent your appearance, please reach out.",
		"Please note that a continuance/virtual appearance cannot be guaranteed and it's ultimately up to the Judge's discretion.",
		"",
		"Best Wishes!",
		"DEXTER & DEXTER LAW",
		"",
		"---",
		"",
		"COURT NOTICE",
		"",
		"UCJA Rule 4-401.02: court proceedings, including electronic proceedings, may NOT be recorded, photographed, or transmitted. Failure to comply with this prohibition may be treated as contempt of court, punishable by fine and time in jail.",
		"",
		"Individuals needing special accommodation (including auxiliary communicative aids and services) should call three days prior to their hearing.",
		"For TTY service call Utah Relay at 800-346-4128.",
		"The general information phone number is 801-724-3900",
	}
	return strings.Join(lines, "\n")
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString(lineTerminator)
}

// formatICSTime formats a time as a floating iCalendar date-time in its own zone
func formatICSTime(t time.Time) string {
	return t.Format(icsTimeLayout)
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
