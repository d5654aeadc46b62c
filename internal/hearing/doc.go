// Package hearing provides the case record produced by the calendar scraper and
// consumed by the calendar, export and api packages.
//
// A Case is a flat set of optional text fields. Absent fields are empty strings and
// are omitted from JSON. Cases carry deterministic SHA1-based IDs so that snapshots
// taken on different runs can be diffed for newly-scheduled or rescheduled hearings.
package hearing
