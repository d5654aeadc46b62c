package hearing

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Case is one court calendar entry as displayed on the search results page.
// Field order matches the order the scraper recovers them in.
type Case struct {
	Time           string `json:"time,omitempty"`
	HearingType    string `json:"hearing_type,omitempty"`
	Date           string `json:"date,omitempty"`
	Court          string `json:"court,omitempty"`
	DetailURL      string `json:"detail_url,omitempty"`
	CourtType      string `json:"court_type,omitempty"`
	Attorney       string `json:"attorney,omitempty"`
	Plaintiff      string `json:"plaintiff,omitempty"`
	Defendant      string `json:"defendant,omitempty"`
	Judge          string `json:"judge,omitempty"`
	Room           string `json:"room,omitempty"`
	HearingPurpose string `json:"hearing_purpose,omitempty"`
	WebexURL       string `json:"webex_url,omitempty"`
	CaseNumber     string `json:"case_number,omitempty"`
	CaseType       string `json:"case_type,omitempty"`
}

// Field is a single key/value pair of a Case, keyed by its JSON name.
type Field struct {
	Key   string
	Value string
}

// AllFields returns every field of the case in declaration order, including empty ones.
func (c Case) AllFields() []Field {
	return []Field{
		{"time", c.Time},
		{"hearing_type", c.HearingType},
		{"date", c.Date},
		{"court", c.Court},
		{"detail_url", c.DetailURL},
		{"court_type", c.CourtType},
		{"attorney", c.Attorney},
		{"plaintiff", c.Plaintiff},
		{"defendant", c.Defendant},
		{"judge", c.Judge},
		{"room", c.Room},
		{"hearing_purpose", c.HearingPurpose},
		{"webex_url", c.WebexURL},
		{"case_number", c.CaseNumber},
		{"case_type", c.CaseType},
	}
}

// Fields returns the non-empty fields of the case in declaration order.
func (c Case) Fields() []Field {
	all := c.AllFields()
	present := make([]Field, 0, len(all))
	for _, f := range all {
		if f.Value != "" {
			present = append(present, f)
		}
	}
	return present
}

// Get returns the value of the field with the given JSON name.
func (c Case) Get(key string) string {
	for _, f := range c.AllFields() {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// IsEmpty reports whether no field was recovered for the case.
func (c Case) IsEmpty() bool {
	return len(c.Fields()) == 0
}

// IsVirtual reports whether the hearing has a WebEx link.
func (c Case) IsVirtual() bool {
	return c.WebexURL != ""
}

// IsDistrictCourt reports whether the court type names a District Court.
func (c Case) IsDistrictCourt() bool {
	return strings.Contains(c.CourtType, "District Court")
}

// IsJusticeCourt reports whether the court type names a Justice Court.
func (c Case) IsJusticeCourt() bool {
	return strings.Contains(c.CourtType, "Justice Court")
}

// ID is a deterministic identifier for this particular hearing.
func (c Case) ID() string {
	return hash(c.CaseNumber, c.Date, c.Time, c.Court, c.HearingPurpose)
}

// StableKey identifies the hearing independent of when and where it is scheduled,
// so a rescheduled hearing keeps its key.
func (c Case) StableKey() string {
	return hash(strings.ToLower(strings.TrimSpace(c.CaseNumber)), strings.ToLower(strings.TrimSpace(c.HearingPurpose)))
}

func hash(parts ...string) string {
	h := sha1.New()
	h.Write([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", h.Sum(nil))
}
