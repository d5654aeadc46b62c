// Package calendar renders court hearings as iCalendar (RFC 5545) documents.
//
// Each hearing becomes one VEVENT with a one hour duration and a display alarm 24
// hours before it starts. Hearings whose date and time cannot be parsed are skipped
// and counted rather than failing the whole document.
package calendar
