// Package filter narrows a list of court hearings by date, court and hearing mode.
//
// Criteria combine with AND. Within a list (Courts, CourtTypes) any entry may match.
//
// Example usage:
//
//	// Virtual hearings in Provo during March
//	f := filter.NewFilter()
//	f.VirtualOnly = true
//	f.Courts = []string{"provo"}
//	f.DateFrom, f.DateTo, _ = filter.ParseDateRange("March")
//
//	filtered := f.Apply(cases)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
)

// Filter represents hearing filtering criteria
type Filter struct {
	// Date range filtering, inclusive on both ends
	DateFrom *time.Time `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty" yaml:"date_to,omitempty"`

	// Court name filtering (case-insensitive substring match)
	Courts []string `json:"courts,omitempty" yaml:"courts,omitempty"`

	// Court type filtering, e.g. "district" or "justice" (case-insensitive substring match)
	CourtTypes []string `json:"court_types,omitempty" yaml:"court_types,omitempty"`

	// Hearing mode
	VirtualOnly  bool `json:"virtual_only,omitempty" yaml:"virtual_only,omitempty"`
	InPersonOnly bool `json:"in_person_only,omitempty" yaml:"in_person_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all hearings until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Courts:     []string{},
		CourtTypes: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Courts) == 0 &&
		len(f.CourtTypes) == 0 &&
		!f.VirtualOnly &&
		!f.InPersonOnly
}

// Validate rejects contradictory criteria.
func (f *Filter) Validate() error {
	if f.VirtualOnly && f.InPersonOnly {
		return fmt.Errorf("virtual-only and in-person-only cannot both be set")
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return fmt.Errorf("start date must be before end date")
	}
	return nil
}

// Matches checks if a hearing matches all active filter criteria.
// An empty filter matches all hearings.
//
// Matching logic:
//   - Date range: hearing date must be within DateFrom and DateTo (inclusive).
//     Hearings whose date cannot be parsed pass the date criteria.
//   - Courts: court name must contain at least one entry
//   - CourtTypes: court type must contain at least one entry
//   - VirtualOnly / InPersonOnly: presence of a webex link
func (f *Filter) Matches(c hearing.Case) bool {
	if f.IsEmpty() {
		return true
	}

	if date := parseCaseDate(c.Date); date != nil {
		if f.DateFrom != nil && date.Before(truncateDay(*f.DateFrom)) {
			return false
		}
		if f.DateTo != nil && date.After(*f.DateTo) {
			return false
		}
	}

	if f.VirtualOnly && !c.IsVirtual() {
		return false
	}
	if f.InPersonOnly && c.IsVirtual() {
		return false
	}

	if !containsAny(c.Court, f.Courts) {
		return false
	}
	if !containsAny(c.CourtType, f.CourtTypes) {
		return false
	}

	return true
}

// Apply applies the filter to a list of hearings and returns only matching ones.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(cases []hearing.Case) []hearing.Case {
	if f.IsEmpty() {
		return cases
	}

	filtered := make([]hearing.Case, 0, len(cases))
	for _, c := range cases {
		if f.Matches(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: Mar 1, 2026 | To: Mar 31, 2026 | Courts: Provo | Virtual only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Courts) > 0 {
		parts = append(parts, fmt.Sprintf("Courts: %s", strings.Join(f.Courts, ", ")))
	}
	if len(f.CourtTypes) > 0 {
		parts = append(parts, fmt.Sprintf("Court types: %s", strings.Join(f.CourtTypes, ", ")))
	}
	if f.VirtualOnly {
		parts = append(parts, "Virtual only")
	}
	if f.InPersonOnly {
		parts = append(parts, "In person only")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		VirtualOnly:  f.VirtualOnly,
		InPersonOnly: f.InPersonOnly,
		Courts:       append([]string{}, f.Courts...),
		CourtTypes:   append([]string{}, f.CourtTypes...),
	}

	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}
	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}

	return clone
}

func containsAny(value string, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	lower := strings.ToLower(value)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(strings.TrimSpace(n))) {
			return true
		}
	}
	return false
}

// parseCaseDate parses the calendar's M/D/YYYY date. Returns nil if parsing fails.
func parseCaseDate(date string) *time.Time {
	t, err := time.Parse("1/2/2006", strings.TrimSpace(date))
	if err != nil {
		return nil
	}
	return &t
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
