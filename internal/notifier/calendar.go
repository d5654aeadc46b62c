package notifier

import (
	"context"

	"github.com/pfrederiksen/court-calendar/internal/calendar"
	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/logger"
)

// CalendarDirNotifier writes a calendar file per hearing into a directory, e.g. one
// watched by a calendar client for imports.
type CalendarDirNotifier struct {
	Dir         string
	Encoder     *calendar.Encoder
	Annotations calendar.Annotations
}

// Notify writes the calendar files.
func (n *CalendarDirNotifier) Notify(ctx context.Context, cases []hearing.Case) error {
	paths, err := n.Encoder.WriteCaseFiles(n.Dir, cases, n.Annotations)
	if err != nil {
		return err
	}
	logger.Info("Wrote calendar files for new hearings", logger.Fields{
		"dir":   n.Dir,
		"files": len(paths),
	})
	return nil
}
