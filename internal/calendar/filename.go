package calendar

import (
	"strings"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
)

// MaxFilenameLength is the longest name SanitizeFilename returns, in characters.
const MaxFilenameLength = 100

var illegalFilenameChars = strings.NewReplacer(
	"<", "", ">", "", ":", "", `"`, "", "/", "", `\`, "", "|", "", "?", "", "*", "",
	" ", "_",
)

// SanitizeFilename makes arbitrary text safe to use as a file name.
func SanitizeFilename(s string) string {
	s = illegalFilenameChars.Replace(s)
	if r := []rune(s); len(r) > MaxFilenameLength {
		s = string(r[:MaxFilenameLength])
	}
	return s
}

// CaseFilename names the single-case calendar file for c,
// e.g. "251400123_DOE.ics".
func CaseFilename(c hearing.Case) string {
	number := c.CaseNumber
	if number == "" {
		number = "unknown"
	}
	defendant := firstToken(c.Defendant)
	if defendant == "" {
		defendant = "defendant"
	}
	return SanitizeFilename(number) + "_" + SanitizeFilename(strings.ToUpper(defendant)) + ".ics"
}
