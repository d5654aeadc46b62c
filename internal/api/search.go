package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pfrederiksen/court-calendar/internal/calendar"
	"github.com/pfrederiksen/court-calendar/internal/export"
	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/logger"
	"github.com/pfrederiksen/court-calendar/internal/scraper"
)

// SearchHandler returns the matching hearings as a JSON array.
func (a *App) SearchHandler(w http.ResponseWriter, r *http.Request) {
	_, cases, ok := a.search(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// CalendarHandler returns the matching hearings as a text/calendar document.
// The number of hearings left out for an unparseable date or time is reported in
// the X-Skipped-Events header.
func (a *App) CalendarHandler(w http.ResponseWriter, r *http.Request) {
	params, cases, ok := a.search(w, r)
	if !ok {
		return
	}

	ann := a.Annotations
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("reference_link")); v != "" {
		ann.ReferenceLink = v
	}
	if v := strings.TrimSpace(q.Get("contact_email")); v != "" {
		ann.ContactEmail = v
	}

	doc, skipped := a.Encoder.Document(cases, ann)

	filename := calendar.SanitizeFilename(fmt.Sprintf("court_hearings_%s_%s", params.FirstName, params.LastName)) + ".ics"
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Skipped-Events", strconv.Itoa(skipped))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// CSVHandler returns the matching hearings as a CSV attachment.
func (a *App) CSVHandler(w http.ResponseWriter, r *http.Request) {
	params, cases, ok := a.search(w, r)
	if !ok {
		return
	}

	filename := export.Filename(params.FirstName, params.LastName, a.Now())
	w.Header().Set("Content-Type", export.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, cases); err != nil {
		// headers are already sent
		logger.Error("Error writing CSV", nil, err)
	}
}

// search validates the query, runs the search and writes an error response when it
// fails. ok is false when a response has already been written.
func (a *App) search(w http.ResponseWriter, r *http.Request) (scraper.SearchParams, []hearing.Case, bool) {
	q := r.URL.Query()
	params := scraper.SearchParams{
		Type:      scraper.SearchTypeAttorney,
		FirstName: q.Get("first_name"),
		LastName:  q.Get("last_name"),
		Date:      q.Get("date"),
		Location:  q.Get("location"),
	}.Normalize()

	if err := params.Validate(); err != nil {
		errorStatus(w, http.StatusUnprocessableEntity, validationDetail(err), err)
		return params, nil, false
	}

	cases, err := a.Searcher.Search(r.Context(), params)
	if err != nil {
		if errors.Is(err, scraper.ErrInvalidParams) {
			errorStatus(w, http.StatusUnprocessableEntity, validationDetail(err), err)
			return params, nil, false
		}
		errorStatus(w, http.StatusInternalServerError, fmt.Sprintf("Error searching court cases: %v", err), err)
		return params, nil, false
	}

	if cases == nil {
		cases = []hearing.Case{}
	}
	return params, cases, true
}

func validationDetail(err error) string {
	return strings.TrimPrefix(err.Error(), scraper.ErrInvalidParams.Error()+": ")
}
