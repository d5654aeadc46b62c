package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/court-calendar/internal/export"
	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time                 `json:"checked_at"`
	Search    scraper.SearchParams      `json:"search"`
	Cases     []hearing.Case            `json:"cases"`
	CaseCount int                       `json:"case_count"`
	Summary   export.Summary            `json:"summary"`
	ByCourt   map[string][]hearing.Case `json:"by_court,omitempty"`
	Changes   []hearing.Change          `json:"changes,omitempty"`
	Filter    string                    `json:"filter,omitempty"`
	ShowAll   bool                      `json:"show_all,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	label := "new"
	prefix := "NEW"
	if result.ShowAll {
		label = "hearings"
		prefix = ""
	}

	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", result.Filter)
	}

	writeChanges(w, result.Changes)

	if result.CaseCount == 0 {
		if result.ShowAll {
			fmt.Fprintln(w, "No hearings found.")
		} else {
			fmt.Fprintln(w, "No new hearings found.")
		}
		return nil
	}

	if len(result.ByCourt) > 0 {
		courts := make([]string, 0, len(result.ByCourt))
		for court := range result.ByCourt {
			courts = append(courts, court)
		}
		sort.Strings(courts)

		for _, court := range courts {
			cases := result.ByCourt[court]
			if len(cases) == 0 {
				continue
			}
			name := court
			if name == "" {
				name = "Unknown court"
			}
			fmt.Fprintf(w, "\n%s (%d %s):\n", name, len(cases), label)
			for _, c := range cases {
				writeCase(w, "  ", prefix, c, verbose)
			}
		}
		fmt.Fprintf(w, "\nTotal: %d %s across %d courts\n", result.CaseCount, label, len(result.ByCourt))
	} else {
		for _, c := range result.Cases {
			writeCase(w, "", prefix, c, verbose)
		}
		fmt.Fprintf(w, "\nTotal: %d %s\n", result.CaseCount, label)
	}

	fmt.Fprintln(w, result.Summary.String())
	return nil
}

func writeCase(w io.Writer, indent, prefix string, c hearing.Case, verbose bool) {
	line := caseLine(c)
	if prefix != "" {
		fmt.Fprintf(w, "%s%s: %s\n", indent, prefix, line)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
	if !verbose {
		return
	}

	detail := indent + "     "
	for _, f := range c.Fields() {
		switch f.Key {
		case "date", "time", "case_number":
			continue
		}
		fmt.Fprintf(w, "%s%s: %s\n", detail, fieldLabel(f.Key), f.Value)
	}
	fmt.Fprintf(w, "%sID: %s\n", detail, c.ID())
}

// caseLine is a one-line description: when, which case, what and where.
func caseLine(c hearing.Case) string {
	parts := []string{
		strings.TrimSpace(c.Date + " " + c.Time),
		c.CaseNumber,
		c.HearingPurpose,
	}
	where := c.Court
	if c.IsVirtual() {
		where += " [virtual]"
	}
	parts = append(parts, strings.TrimSpace(where))

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return "(no details)"
	}
	return strings.Join(nonEmpty, " | ")
}

func writeChanges(w io.Writer, changes []hearing.Change) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintf(w, "Changed hearings (%d):\n", len(changes))
	for _, ch := range changes {
		fmt.Fprintf(w, "  CHANGED %s: %s %q -> %q\n", ch.CaseNumber, ch.ChangeType, ch.OldValue, ch.NewValue)
	}
	fmt.Fprintln(w)
}

func fieldLabel(key string) string {
	words := strings.Split(key, "_")
	for i, word := range words {
		switch word {
		case "url":
			words[i] = "URL"
		case "":
		default:
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
