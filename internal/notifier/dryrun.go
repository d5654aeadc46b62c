package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
)

// WriterNotifier prints each notification instead of sending it
type WriterNotifier struct {
	w io.Writer
}

// NewWriterNotifier creates a notifier that prints to w
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify prints the messages that would be sent
func (n *WriterNotifier) Notify(ctx context.Context, cases []hearing.Case) error {
	for i, c := range cases {
		if _, err := fmt.Fprintf(n.w, "--- Hearing %d/%d ---\n%s\n\n", i+1, len(cases), FormatMessage(c)); err != nil {
			return err
		}
	}
	return nil
}
