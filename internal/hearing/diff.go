package hearing

import (
	"sort"
	"time"
)

// Snapshot represents the hearings returned by one search at a point in time
type Snapshot struct {
	Cases       map[string]Case   `json:"cases"`        // keyed by Case.ID()
	StableIndex map[string]string `json:"stable_index"` // StableKey → ID mapping
	UpdatedAt   string            `json:"updated_at"`   // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Cases:       make(map[string]Case),
		StableIndex: make(map[string]string),
	}
}

// CreateSnapshot creates a snapshot from a list of cases
func CreateSnapshot(cases []Case, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt

	for _, c := range cases {
		id := c.ID()
		snap.Cases[id] = c
		snap.StableIndex[c.StableKey()] = id
	}

	return snap
}

// DiffResult contains the results of comparing current cases with a snapshot
type DiffResult struct {
	NewCases []Case
	ByCourt  map[string][]Case // new cases grouped by court
	Changes  []Change          // rescheduled or relocated hearings
}

// Diff compares current cases against a previous snapshot and returns new hearings.
// A hearing whose stable key was already known is reported as a change rather than
// as new.
func Diff(previous *Snapshot, current []Case) *DiffResult {
	result := &DiffResult{
		NewCases: make([]Case, 0),
		ByCourt:  make(map[string][]Case),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, c := range current {
		if _, exists := previous.Cases[c.ID()]; exists {
			continue
		}

		if prevID, known := previous.StableIndex[c.StableKey()]; known {
			if prev, ok := previous.Cases[prevID]; ok {
				result.Changes = append(result.Changes, DetectChanges(prev, c)...)
				continue
			}
		}

		result.NewCases = append(result.NewCases, c)
		result.ByCourt[c.Court] = append(result.ByCourt[c.Court], c)
	}

	SortByStart(result.NewCases)
	for court := range result.ByCourt {
		SortByStart(result.ByCourt[court])
	}

	return result
}

// SortByStart orders cases in place by start time, putting unparseable dates last,
// then by case number.
func SortByStart(cases []Case) {
	sort.SliceStable(cases, func(i, j int) bool {
		ti, errI := cases[i].Start(time.UTC)
		tj, errJ := cases[j].Start(time.UTC)
		switch {
		case errI == nil && errJ == nil && !ti.Equal(tj):
			return ti.Before(tj)
		case errI == nil && errJ != nil:
			return true
		case errI != nil && errJ == nil:
			return false
		}
		return cases[i].CaseNumber < cases[j].CaseNumber
	})
}

// Change represents a change detected in a hearing between two runs
type Change struct {
	CaseID     string    `json:"case_id"`
	StableKey  string    `json:"stable_key"`
	CaseNumber string    `json:"case_number"`
	ChangeType string    `json:"change_type"` // "new", "date", "time", "room", "judge", "location"
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	DetectedAt time.Time `json:"detected_at"`
}

// DetectChanges compares two versions of the same hearing and returns detected changes.
// A zero previous case means the hearing is new.
func DetectChanges(previous, current Case) []Change {
	now := time.Now().UTC()

	if previous.IsEmpty() {
		return []Change{{
			CaseID:     current.ID(),
			StableKey:  current.StableKey(),
			CaseNumber: current.CaseNumber,
			ChangeType: "new",
			NewValue:   current.Date + " " + current.Time,
			DetectedAt: now,
		}}
	}

	var changes []Change
	compare := func(kind, oldValue, newValue string) {
		if oldValue == newValue {
			return
		}
		changes = append(changes, Change{
			CaseID:     current.ID(),
			StableKey:  current.StableKey(),
			CaseNumber: current.CaseNumber,
			ChangeType: kind,
			OldValue:   oldValue,
			NewValue:   newValue,
			DetectedAt: now,
		})
	}

	compare("date", previous.Date, current.Date)
	compare("time", previous.Time, current.Time)
	compare("room", previous.Room, current.Room)
	compare("judge", previous.Judge, current.Judge)
	compare("location", previous.Location(), current.Location())

	return changes
}

// CompareSnapshots compares two snapshots and returns all detected changes
func CompareSnapshots(previous, current *Snapshot) []Change {
	if previous == nil {
		previous = NewSnapshot()
	}
	if current == nil {
		return nil
	}

	keys := make([]string, 0, len(current.StableIndex))
	for k := range current.StableIndex {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var all []Change
	for _, stableKey := range keys {
		cur := current.Cases[current.StableIndex[stableKey]]
		var prev Case
		if prevID, ok := previous.StableIndex[stableKey]; ok {
			prev = previous.Cases[prevID]
		}
		all = append(all, DetectChanges(prev, cur)...)
	}
	return all
}

// Location is where the hearing takes place: the WebEx link for virtual hearings,
// otherwise the court name.
func (c Case) Location() string {
	if c.WebexURL != "" {
		return c.WebexURL
	}
	return c.Court
}
