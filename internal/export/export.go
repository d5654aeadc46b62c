package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
)

// ContentType is the MIME type of WriteCSV output.
const ContentType = "text/csv"

// Summary counts hearings by mode and court level.
type Summary struct {
	Total    int `json:"total"`
	Virtual  int `json:"virtual"`
	District int `json:"district"`
	Justice  int `json:"justice"`
}

// Columns returns the keys of all non-empty fields across cases in first-seen order.
func Columns(cases []hearing.Case) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, c := range cases {
		for _, f := range c.Fields() {
			if !seen[f.Key] {
				seen[f.Key] = true
				columns = append(columns, f.Key)
			}
		}
	}
	return columns
}

// WriteCSV writes a header row of Columns followed by one row per case.
// Nothing is written for an empty list.
func WriteCSV(w io.Writer, cases []hearing.Case) error {
	columns := Columns(cases)
	if len(columns) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	row := make([]string, len(columns))
	for _, c := range cases {
		for i, key := range columns {
			row[i] = c.Get(key)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// Filename names an export of a search for first and last made at now,
// e.g. "court_cases_CHRIS_DEXTER_20251112.csv".
func Filename(first, last string, now time.Time) string {
	return fmt.Sprintf("court_cases_%s_%s_%s.csv",
		strings.TrimSpace(first), strings.TrimSpace(last), now.Format("20060102"))
}

// Summarize counts the cases.
func Summarize(cases []hearing.Case) Summary {
	s := Summary{Total: len(cases)}
	for _, c := range cases {
		if c.IsVirtual() {
			s.Virtual++
		}
		if c.IsDistrictCourt() {
			s.District++
		}
		if c.IsJusticeCourt() {
			s.Justice++
		}
	}
	return s
}

// String formats the summary on one line.
func (s Summary) String() string {
	return fmt.Sprintf("Total: %d | Virtual: %d | District Court: %d | Justice Court: %d",
		s.Total, s.Virtual, s.District, s.Justice)
}
