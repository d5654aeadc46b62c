package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
)

// MaxMessageLength bounds the text of a single notification.
const MaxMessageLength = 500

// Notifier defines the interface for delivering hearing notifications
type Notifier interface {
	// Notify delivers notifications for the given hearings
	Notify(ctx context.Context, cases []hearing.Case) error
}

// Multi notifies every wrapped notifier and joins their errors.
type Multi []Notifier

// Notify calls each notifier in order, continuing past failures.
func (m Multi) Notify(ctx context.Context, cases []hearing.Case) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, cases); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FormatMessage formats a hearing as a short notification text
func FormatMessage(c hearing.Case) string {
	var b strings.Builder
	b.WriteString("New court hearing\n\n")

	if c.Date != "" || c.Time != "" {
		fmt.Fprintf(&b, "When: %s\n", strings.TrimSpace(c.Date+" "+c.Time))
	}
	if c.CaseNumber != "" {
		fmt.Fprintf(&b, "Case: %s", c.CaseNumber)
		if c.CaseType != "" {
			fmt.Fprintf(&b, " (%s)", c.CaseType)
		}
		b.WriteString("\n")
	}
	if c.Plaintiff != "" || c.Defendant != "" {
		fmt.Fprintf(&b, "Parties: %s v. %s\n", orUnknown(c.Plaintiff), orUnknown(c.Defendant))
	}
	if c.HearingPurpose != "" {
		fmt.Fprintf(&b, "Purpose: %s\n", c.HearingPurpose)
	}
	if c.Court != "" {
		fmt.Fprintf(&b, "Court: %s\n", c.Court)
	}
	if c.Judge != "" {
		fmt.Fprintf(&b, "Judge: %s\n", c.Judge)
	}
	if c.IsVirtual() {
		fmt.Fprintf(&b, "WebEx: %s\n", c.WebexURL)
	} else if c.Room != "" {
		fmt.Fprintf(&b, "Room: %s\n", c.Room)
	}

	msg := strings.TrimRight(b.String(), "\n")
	if r := []rune(msg); len(r) > MaxMessageLength {
		msg = string(r[:MaxMessageLength-3]) + "..."
	}
	return msg
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
