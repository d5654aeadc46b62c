package hearing

import (
	"errors"
	"testing"
	"time"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		date    string
		clock   string
		want    time.Time
		wantErr bool
	}{
		{"11/12/2025", "2:00 PM", time.Date(2025, 11, 12, 14, 0, 0, 0, time.UTC), false},
		{"11/12/2025", "02:00 PM", time.Date(2025, 11, 12, 14, 0, 0, 0, time.UTC), false},
		{"1/5/2026", "9:30 AM", time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC), false},
		{"01/05/2026", "12:00 PM", time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC), false},
		{"01/05/2026", "12:15 AM", time.Date(2026, 1, 5, 0, 15, 0, 0, time.UTC), false},
		{" 11/12/2025 ", " 2:00 PM ", time.Date(2025, 11, 12, 14, 0, 0, 0, time.UTC), false},
		{"11/12/2025", "2:00 pm", time.Date(2025, 11, 12, 14, 0, 0, 0, time.UTC), false},
		{"11/12/2025", "9:05 am", time.Date(2025, 11, 12, 9, 5, 0, 0, time.UTC), false},
		{"13/45/2025", "2:00 PM", time.Time{}, true},
		{"11/12/2025", "14:00", time.Time{}, true},
		{"2025-11-12", "2:00 PM", time.Time{}, true},
		{"", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.date+" "+tt.clock, func(t *testing.T) {
			got, err := ParseStart(tt.date, tt.clock, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStart() = %v, want error", got)
				}
				if !errors.Is(err, ErrUnparseableStart) {
					t.Errorf("error %v should wrap ErrUnparseableStart", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStart() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCase_StartInLocation(t *testing.T) {
	loc := time.FixedZone("MST", -7*60*60)
	c := Case{Date: "11/12/2025", Time: "2:00 PM"}

	got, err := c.Start(loc)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got.Location() != loc {
		t.Errorf("Start() location = %v, want %v", got.Location(), loc)
	}
	if got.Hour() != 14 {
		t.Errorf("Start() hour = %d, want 14", got.Hour())
	}
	if got.UTC().Hour() != 21 {
		t.Errorf("Start() UTC hour = %d, want 21", got.UTC().Hour())
	}
}
