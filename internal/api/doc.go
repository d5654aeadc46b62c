// Package api serves court calendar searches over HTTP.
//
// Routes:
//
//	GET /                          service information
//	GET /health                    liveness check
//	GET /metrics                   in-process counters and timings
//	GET /search/attorney           matching hearings as JSON
//	GET /search/attorney/calendar  matching hearings as an iCalendar document
//	GET /search/attorney/csv       matching hearings as CSV
//
// The search routes take first_name and last_name (at least two characters each)
// plus optional date ("all" or YYYY-MM-DD) and location ("all" or a court code).
package api
