package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const oneCasePage = `
<html><body>
  <div class="row">
    <div class="col-xs-8"><strong>2:00 PM</strong></div>
    <div class="col-xs-4"><strong>11/12/2025</strong></div>
  </div>
  <div class="casehover">
    <a class="caselink" href="casedetail.php?case=1">Provo - District</a>
    <div class="case">Case #1<br>Felony</div>
  </div>
</body></html>`

func TestSearch(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantError   bool
		wantCases   int
	}{
		{
			name:        "successful fetch with cases",
			htmlContent: oneCasePage,
			statusCode:  http.StatusOK,
			wantCases:   1,
		},
		{
			name:       "HTTP error",
			statusCode: http.StatusNotFound,
			wantError:  true,
		},
		{
			name:        "no results",
			htmlContent: `<html><body><p>No hearings found</p></body></html>`,
			statusCode:  http.StatusOK,
			wantCases:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "court-calendar") {
					t.Errorf("User-Agent = %q, should contain 'court-calendar'", ua)
				}
				q := r.URL.Query()
				if q.Get("t") != "a" || q.Get("f") != "CHRIS" || q.Get("l") != "DEXTER" || q.Get("d") != "all" || q.Get("loc") != "all" {
					t.Errorf("unexpected query: %s", r.URL.RawQuery)
				}

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			s := New(WithBaseURL(server.URL))
			found, err := s.Search(context.Background(), SearchParams{FirstName: "chris", LastName: "dexter"})

			if tt.wantError {
				if err == nil {
					t.Fatal("Search() expected error, got nil")
				}
				var statusErr *StatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != tt.statusCode {
					t.Errorf("Search() error = %v, want StatusError %d", err, tt.statusCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Search() unexpected error: %v", err)
			}
			if len(found) != tt.wantCases {
				t.Errorf("Search() returned %d cases, want %d", len(found), tt.wantCases)
			}
		})
	}
}

func TestSearch_InvalidParams(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	s := New(WithBaseURL(server.URL))
	_, err := s.Search(context.Background(), SearchParams{FirstName: "C", LastName: "DEXTER"})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Search() error = %v, want ErrInvalidParams", err)
	}
	if called {
		t.Error("invalid parameters should not reach the network")
	}
}

func TestSearch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(oneCasePage))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithBaseURL(server.URL)).Search(ctx, SearchParams{FirstName: "CHRIS", LastName: "DEXTER"})
	if err == nil {
		t.Error("Search() with cancelled context should fail")
	}
}

func TestNew(t *testing.T) {
	s := New()

	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.client == nil {
		t.Error("scraper client is nil")
	}
	if s.url != SearchURL {
		t.Errorf("scraper url = %q, want %q", s.url, SearchURL)
	}
	if s.client.Timeout != Timeout {
		t.Errorf("timeout = %v, want %v", s.client.Timeout, Timeout)
	}

	custom := New(WithUserAgent("x/1"), WithTimeout(5*time.Second), WithBaseURL(""))
	if custom.userAgent != "x/1" {
		t.Errorf("userAgent = %q", custom.userAgent)
	}
	if custom.client.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", custom.client.Timeout)
	}
	if custom.URL() != SearchURL {
		t.Errorf("empty base URL should keep default, got %q", custom.URL())
	}
}

func TestWithTimeout_LeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	s := New(WithHTTPClient(shared), WithTimeout(5*time.Second))

	if shared.Timeout != time.Minute {
		t.Errorf("shared client timeout changed to %v", shared.Timeout)
	}
	if s.client.Timeout != 5*time.Second {
		t.Errorf("scraper timeout = %v, want 5s", s.client.Timeout)
	}
	if s.client == shared {
		t.Error("scraper should use a copy of the shared client")
	}
}

func TestSearch_WithHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(oneCasePage))
	}))
	defer server.Close()

	s := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	cases, err := s.Search(context.Background(), SearchParams{FirstName: "chris", LastName: "dexter"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(cases) != 1 || cases[0].Court != "Provo - District" {
		t.Errorf("Search() = %+v", cases)
	}
}

func TestSearchParams_Normalize(t *testing.T) {
	p := SearchParams{FirstName: "  chris ", LastName: "dexter"}.Normalize()

	if p.Type != SearchTypeAttorney {
		t.Errorf("Type = %q, want %q", p.Type, SearchTypeAttorney)
	}
	if p.FirstName != "CHRIS" || p.LastName != "DEXTER" {
		t.Errorf("names = %q %q", p.FirstName, p.LastName)
	}
	if p.Date != All || p.Location != All {
		t.Errorf("date/location = %q/%q, want all/all", p.Date, p.Location)
	}
}

func TestSearchParams_Validate(t *testing.T) {
	valid := SearchParams{Type: "a", FirstName: "CHRIS", LastName: "DEXTER", Date: "all", Location: "all"}

	tests := []struct {
		name    string
		mutate  func(*SearchParams)
		wantErr bool
	}{
		{"valid", func(p *SearchParams) {}, false},
		{"specific date", func(p *SearchParams) { p.Date = "2025-11-12" }, false},
		{"court code", func(p *SearchParams) { p.Location = "1868D" }, false},
		{"short first name", func(p *SearchParams) { p.FirstName = "C" }, true},
		{"short last name", func(p *SearchParams) { p.LastName = "" }, true},
		{"bad date", func(p *SearchParams) { p.Date = "11/12/2025" }, true},
		{"bad location", func(p *SearchParams) { p.Location = "salt lake" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate() error %v should wrap ErrInvalidParams", err)
			}
		})
	}
}

func TestSearchParams_Key(t *testing.T) {
	p := SearchParams{FirstName: "Chris", LastName: "Dexter"}.Normalize()
	if got := p.Key(); got != "A_DEXTER_CHRIS" {
		t.Errorf("Key() = %q", got)
	}

	p.Date = "2025-11-12"
	p.Location = "1868D"
	if got := p.Key(); got != "A_DEXTER_CHRIS_2025-11-12_1868D" {
		t.Errorf("Key() = %q", got)
	}
}
