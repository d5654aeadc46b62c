package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/logger"
)

const (
	SearchURL = "https://legacy.utcourts.gov/cal/search.php"
	UserAgent = "court-calendar/1.0 (github.com/pfrederiksen/court-calendar)"
	Timeout   = 30 * time.Second

	// SearchTypeAttorney is the search type code for an attorney name search.
	SearchTypeAttorney = "a"
	// All is the "no filter" value for the date and location parameters.
	All = "all"
)

// ErrInvalidParams is wrapped by every SearchParams validation error.
var ErrInvalidParams = errors.New("invalid search parameters")

// StatusError is returned when the calendar site answers with a non-200 status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// SearchParams are the query parameters of the calendar search page.
type SearchParams struct {
	Type      string `json:"type" yaml:"type"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Date      string `json:"date" yaml:"date"`         // "all" or YYYY-MM-DD
	Location  string `json:"location" yaml:"location"` // "all" or a court code
}

// Normalize trims every parameter, upper-cases the names and fills in defaults.
func (p SearchParams) Normalize() SearchParams {
	upper := cases.Upper(language.Und)
	p.Type = strings.TrimSpace(p.Type)
	if p.Type == "" {
		p.Type = SearchTypeAttorney
	}
	p.FirstName = upper.String(strings.TrimSpace(p.FirstName))
	p.LastName = upper.String(strings.TrimSpace(p.LastName))
	p.Date = strings.TrimSpace(p.Date)
	if p.Date == "" {
		p.Date = All
	}
	p.Location = strings.TrimSpace(p.Location)
	if p.Location == "" {
		p.Location = All
	}
	return p
}

// Validate checks the parameters the way the search form does.
func (p SearchParams) Validate() error {
	if len([]rune(p.FirstName)) < 2 {
		return fmt.Errorf("%w: first name must be at least 2 characters", ErrInvalidParams)
	}
	if len([]rune(p.LastName)) < 2 {
		return fmt.Errorf("%w: last name must be at least 2 characters", ErrInvalidParams)
	}
	if p.Date != All {
		if _, err := time.Parse("2006-01-02", p.Date); err != nil {
			return fmt.Errorf("%w: date must be %q or YYYY-MM-DD, got %q", ErrInvalidParams, All, p.Date)
		}
	}
	if p.Location == "" || strings.ContainsAny(p.Location, " \t\n") {
		return fmt.Errorf("%w: location must be %q or a court code, got %q", ErrInvalidParams, All, p.Location)
	}
	return nil
}

// Query encodes the parameters as the search page expects them.
func (p SearchParams) Query() url.Values {
	q := url.Values{}
	q.Set("t", p.Type)
	q.Set("f", p.FirstName)
	q.Set("l", p.LastName)
	q.Set("d", p.Date)
	q.Set("loc", p.Location)
	return q
}

// Key is a filesystem-friendly identifier for the search, used to name snapshots.
func (p SearchParams) Key() string {
	parts := []string{p.Type, p.LastName, p.FirstName}
	if p.Date != "" && p.Date != All {
		parts = append(parts, p.Date)
	}
	if p.Location != "" && p.Location != All {
		parts = append(parts, p.Location)
	}
	return strings.ToUpper(strings.ReplaceAll(strings.Join(parts, "_"), " ", "-"))
}

// Scraper handles fetching and parsing court calendar search results
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithBaseURL points the scraper at a different search page.
func WithBaseURL(u string) Option {
	return func(s *Scraper) {
		if u != "" {
			s.url = u
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		if c != nil {
			s.client = c
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithTimeout sets the HTTP client timeout. The client is copied first so a client
// passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			c := *s.client
			c.Timeout = d
			s.client = &c
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:       SearchURL,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the search page the scraper queries.
func (s *Scraper) URL() string {
	return s.url
}

// Search runs a calendar search and returns the hearings it lists.
func (s *Scraper) Search(ctx context.Context, params SearchParams) ([]hearing.Case, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.URL.RawQuery = params.Query().Encode()
	req.Header.Set("User-Agent", s.userAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()
	logger.RecordTiming("fetch.duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	found, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.Debug("Calendar search finished", logger.Fields{
		"type":     params.Type,
		"first":    params.FirstName,
		"last":     params.LastName,
		"date":     params.Date,
		"location": params.Location,
		"cases":    len(found),
	})

	return found, nil
}
