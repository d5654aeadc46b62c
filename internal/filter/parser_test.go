package filter

import (
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	// fixed reference point so year inference is deterministic
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "Mar 1-15",
			input:    "Mar 1-15",
			wantFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "March 1 - April 15",
			input:    "March 1 - April 15",
			wantFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 4, 15, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "Dec 25 - Jan 5 (cross year)",
			input:    "Dec 25 - Jan 5",
			wantFrom: time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2027, 1, 5, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "past month rolls to next year",
			input:    "January",
			wantFrom: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2027, 1, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "current month stays",
			input:    "feb",
			wantFrom: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "sept abbreviation",
			input:    "Sept 3-4",
			wantFrom: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 9, 4, 23, 59, 59, 0, time.UTC),
		},
		{name: "empty", input: "", wantErr: true},
		{name: "inverted days", input: "Mar 15-1", wantErr: true},
		{name: "day out of range", input: "Mar 1-32", wantErr: true},
		{name: "garbage", input: "next week", wantErr: true},
		{name: "unknown month", input: "Smarch 1-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := parseDateRange(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDateRange(%q) expected error, got %v - %v", tt.input, from, to)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDateRange(%q) unexpected error: %v", tt.input, err)
			}
			if !from.Equal(tt.wantFrom) {
				t.Errorf("from = %v, want %v", from, tt.wantFrom)
			}
			if !to.Equal(tt.wantTo) {
				t.Errorf("to = %v, want %v", to, tt.wantTo)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2025-11-12", "11/12/2025", " 11/12/2025 ", "Nov 12, 2025", "November 12, 2025"} {
		got, err := ParseDate(input)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v", input, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseDate("13/45/2025"); err == nil {
		t.Error("ParseDate should reject 13/45/2025")
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input string
		want  time.Month
	}{
		{"jan", time.January},
		{"January", time.January},
		{"JANUARY", time.January},
		{"may", time.May},
		{"sep", time.September},
		{"sept", time.September},
		{"dec", time.December},
		{"ja", time.Month(0)},
		{"invalid", time.Month(0)},
		{"", time.Month(0)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseMonth(tt.input); got != tt.want {
				t.Errorf("parseMonth(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
