package filter

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
)

var (
	provo = hearing.Case{
		CaseNumber: "251400123",
		Date:       "11/12/2025",
		Court:      "Provo - District",
		CourtType:  "Fourth District Court",
	}
	saltLake = hearing.Case{
		CaseNumber: "255900777",
		Date:       "11/20/2025",
		Court:      "Salt Lake City - District",
		CourtType:  "Third District Court",
		WebexURL:   "https://utcourts.webex.com/meet/jsmith",
	}
	orem = hearing.Case{
		CaseNumber: "OR-1",
		Date:       "12/1/2025",
		Court:      "Orem Justice",
		CourtType:  "Orem Justice Court",
	}
	undated = hearing.Case{
		CaseNumber: "X-1",
		Court:      "Provo - District",
	}
)

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"empty filter", NewFilter(), true},
		{"zero value", &Filter{}, true},
		{"date from", &Filter{DateFrom: timePtr(time.Now())}, false},
		{"virtual only", &Filter{VirtualOnly: true}, false},
		{"in person only", &Filter{InPersonOnly: true}, false},
		{"court", &Filter{Courts: []string{"Provo"}}, false},
		{"court type", &Filter{CourtTypes: []string{"justice"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	nov1 := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	nov12 := time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)
	nov15 := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter *Filter
		c      hearing.Case
		want   bool
	}{
		{"empty filter matches all", NewFilter(), provo, true},
		{"court matches substring", &Filter{Courts: []string{"provo"}}, provo, true},
		{"court does not match", &Filter{Courts: []string{"ogden"}}, provo, false},
		{"any court may match", &Filter{Courts: []string{"ogden", "SALT LAKE"}}, saltLake, true},
		{"court type justice", &Filter{CourtTypes: []string{"justice"}}, orem, true},
		{"court type district rejects justice", &Filter{CourtTypes: []string{"district"}}, orem, false},
		{"virtual only keeps webex", &Filter{VirtualOnly: true}, saltLake, true},
		{"virtual only drops in person", &Filter{VirtualOnly: true}, provo, false},
		{"in person only drops webex", &Filter{InPersonOnly: true}, saltLake, false},
		{"in person only keeps in person", &Filter{InPersonOnly: true}, provo, true},
		{"date within range", &Filter{DateFrom: &nov1, DateTo: &nov15}, provo, true},
		{"date after range", &Filter{DateFrom: &nov1, DateTo: &nov15}, saltLake, false},
		{"date before range", &Filter{DateFrom: &nov15}, provo, false},
		{"date on inclusive end", &Filter{DateTo: &nov12}, provo, true},
		{"date on inclusive start", &Filter{DateFrom: timePtr(nov12.Add(9 * time.Hour))}, provo, true},
		{"undated passes date criteria", &Filter{DateFrom: &nov15}, undated, true},
		{"undated still checked for court", &Filter{DateFrom: &nov15, Courts: []string{"orem"}}, undated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.c); got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	cases := []hearing.Case{provo, saltLake, orem, undated}

	t.Run("empty filter returns input", func(t *testing.T) {
		got := NewFilter().Apply(cases)
		if len(got) != len(cases) {
			t.Errorf("Apply() returned %d cases, want %d", len(got), len(cases))
		}
	})

	t.Run("district in person", func(t *testing.T) {
		f := &Filter{CourtTypes: []string{"district"}, InPersonOnly: true}
		got := f.Apply(cases)
		if len(got) != 1 || got[0].CaseNumber != provo.CaseNumber {
			t.Errorf("Apply() = %+v, want only %s", got, provo.CaseNumber)
		}
	})

	t.Run("range from parsed input keeps order", func(t *testing.T) {
		from, to, err := parseDateRange("Nov 10-30", time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("parseDateRange() error = %v", err)
		}
		f := &Filter{DateFrom: from, DateTo: to}
		got := f.Apply(cases)

		want := []string{provo.CaseNumber, saltLake.CaseNumber, undated.CaseNumber}
		if len(got) != len(want) {
			t.Fatalf("Apply() returned %d cases, want %d", len(got), len(want))
		}
		for i, c := range got {
			if c.CaseNumber != want[i] {
				t.Errorf("Apply()[%d] = %s, want %s", i, c.CaseNumber, want[i])
			}
		}
	})

	t.Run("no matches", func(t *testing.T) {
		f := &Filter{Courts: []string{"Moab"}}
		if got := f.Apply(cases); len(got) != 0 {
			t.Errorf("Apply() returned %d cases, want 0", len(got))
		}
	})
}

func TestFilter_Validate(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	if err := (&Filter{VirtualOnly: true, InPersonOnly: true}).Validate(); err == nil {
		t.Error("Validate() should reject virtual-only with in-person-only")
	}
	if err := (&Filter{DateFrom: &late, DateTo: &early}).Validate(); err == nil {
		t.Error("Validate() should reject an inverted range")
	}
	if err := (&Filter{DateFrom: &early, DateTo: &late, VirtualOnly: true}).Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestFilter_String(t *testing.T) {
	mar1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mar31 := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{"empty", NewFilter(), "No active filters"},
		{"virtual only", &Filter{VirtualOnly: true}, "Virtual only"},
		{
			name:   "combined",
			filter: &Filter{DateFrom: &mar1, DateTo: &mar31, Courts: []string{"Provo", "Orem"}, InPersonOnly: true},
			want:   "From: Mar 1, 2026 | To: Mar 31, 2026 | Courts: Provo, Orem | In person only",
		},
		{"court types", &Filter{CourtTypes: []string{"justice"}}, "Court types: justice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.String(); got != tt.want {
				t.Errorf("Filter.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilter_Clone(t *testing.T) {
	mar1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	original := &Filter{
		DateFrom:    &mar1,
		Courts:      []string{"Provo"},
		CourtTypes:  []string{"district"},
		VirtualOnly: true,
	}

	clone := original.Clone()
	clone.Courts[0] = "Ogden"
	clone.CourtTypes = append(clone.CourtTypes, "justice")
	*clone.DateFrom = mar1.AddDate(0, 1, 0)

	if original.Courts[0] != "Provo" {
		t.Error("modifying clone courts changed the original")
	}
	if len(original.CourtTypes) != 1 {
		t.Error("appending to clone court types changed the original")
	}
	if !original.DateFrom.Equal(mar1) {
		t.Error("modifying clone date changed the original")
	}
	if !strings.Contains(clone.String(), "Virtual only") {
		t.Error("clone should keep hearing mode")
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
