package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/court-calendar/internal/export"
	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/logger"
	"github.com/pfrederiksen/court-calendar/internal/notifier"
	"github.com/pfrederiksen/court-calendar/internal/storage"
)

// notifyFlags selects where new hearings are delivered besides the command output.
type notifyFlags struct {
	webhook string
	icsDir  string
}

func (f *notifyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.webhook, "webhook", "", "Post each new hearing as JSON to this URL")
	cmd.Flags().StringVar(&f.icsDir, "ics-dir", "", "Write a calendar file per new hearing into this directory")
}

// notifier returns the configured notifiers, or nil when none is set. Flags win
// over the config file.
func (f *notifyFlags) notifier(o *options) (notifier.Notifier, error) {
	webhook, icsDir := o.cfg.WebhookURL, o.cfg.ICSDir
	if f.webhook != "" {
		webhook = f.webhook
	}
	if f.icsDir != "" {
		icsDir = f.icsDir
	}

	var multi notifier.Multi
	if webhook != "" {
		multi = append(multi, notifier.NewWebhookNotifier(webhook, nil))
	}
	if icsDir != "" {
		enc, err := o.encoder()
		if err != nil {
			return nil, err
		}
		multi = append(multi, &notifier.CalendarDirNotifier{
			Dir:         icsDir,
			Encoder:     enc,
			Annotations: o.cfg.Annotations(),
		})
	}
	if len(multi) == 0 {
		return nil, nil
	}
	return multi, nil
}

// pendingSnapshot holds the hearings a check saves once its results are delivered.
// A check whose notifications fail leaves the previous snapshot in place, so the
// same hearings are reported again on the next run.
type pendingSnapshot struct {
	store *storage.Storage
	key   string
	cases []hearing.Case
}

func (p *pendingSnapshot) save() error {
	if err := p.store.SaveCases(p.cases, p.key); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	logger.Debug("Saved snapshot", logger.Fields{"path": p.store.SnapshotPath(p.key), "cases": len(p.cases)})
	return nil
}

// check fetches the current hearings and diffs them against the stored snapshot for
// the same search. The returned snapshot is not saved yet. With refresh the previous
// snapshot is ignored and nothing is reported as new.
func (o *options) check(ctx context.Context, refresh bool) (*OutputResult, *pendingSnapshot, error) {
	store, err := storage.New(o.cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}

	params, fetched, err := o.search(ctx)
	if err != nil {
		return nil, nil, err
	}

	current := make([]hearing.Case, 0, len(fetched))
	for _, c := range fetched {
		if !c.IsEmpty() {
			current = append(current, c)
		}
	}

	key := params.Key()
	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Search:    params,
		Cases:     []hearing.Case{},
	}

	if !refresh {
		previous, err := store.LoadSnapshot(key)
		if err != nil {
			return nil, nil, fmt.Errorf("loading snapshot: %w", err)
		}
		logger.Debug("Loaded previous snapshot", logger.Fields{
			"key":        key,
			"cases":      len(previous.Cases),
			"updated_at": previous.UpdatedAt,
		})

		diff := hearing.Diff(previous, current)
		result.Cases = diff.NewCases
		result.CaseCount = len(diff.NewCases)
		result.ByCourt = diff.ByCourt
		result.Changes = diff.Changes
		result.Summary = export.Summarize(diff.NewCases)
	}

	logger.IncrCounter("check.runs")
	logger.AddCounter("check.new_cases", int64(result.CaseCount))
	return result, &pendingSnapshot{store: store, key: key, cases: current}, nil
}

// deliver sends new hearings to n, then saves the snapshot. The snapshot is kept
// unchanged when delivery fails.
func deliver(ctx context.Context, n notifier.Notifier, result *OutputResult, snap *pendingSnapshot) error {
	if n != nil && result.CaseCount > 0 {
		if err := n.Notify(ctx, result.Cases); err != nil {
			return fmt.Errorf("sending notifications: %w", err)
		}
	}
	return snap.save()
}

func newCheckCmd(o *options) *cobra.Command {
	var (
		format  string
		refresh bool
		notify  notifyFlags
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report hearings added since the last check",
		Long: `Fetch the attorney's hearings, compare them with the snapshot saved by the
previous check of the same search, and print the new ones and any rescheduled
hearings. Exits with status 2 when new hearings were found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}
			n, err := notify.notifier(o)
			if err != nil {
				return err
			}

			result, snap, err := o.check(cmd.Context(), refresh)
			if err != nil {
				return err
			}

			if refresh {
				if err := snap.save(); err != nil {
					return err
				}
				if outFormat == FormatText {
					fmt.Fprintln(cmd.OutOrStdout(), "Snapshot refreshed successfully.")
					return nil
				}
				return WriteOutput(cmd.OutOrStdout(), result, outFormat, o.verbose)
			}

			if err := WriteOutput(cmd.OutOrStdout(), result, outFormat, o.verbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if err := deliver(cmd.Context(), n, result, snap); err != nil {
				return err
			}
			if result.CaseCount > 0 {
				return &ExitCodeError{Code: ExitNewCases}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(FormatText), "Output format: text or json")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh snapshot without showing new hearings")
	notify.register(cmd)

	return cmd
}

// newScheduler registers job on a cron schedule in loc.
func newScheduler(loc *time.Location, schedule string, job func()) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(schedule, job); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return c, nil
}

func newWatchCmd(o *options) *cobra.Command {
	var (
		schedule string
		format   string
		runNow   bool
		notify   notifyFlags
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run check on a schedule until interrupted",
		Long: `Run check on a cron schedule (court-local time) and print new hearings as
they appear. The default schedule is weekdays at 7:00.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("schedule") {
				schedule = o.cfg.Schedule
			}
			loc, err := o.cfg.Location()
			if err != nil {
				return err
			}
			if err := o.params().Validate(); err != nil {
				return err
			}
			n, err := notify.notifier(o)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			job := func() {
				result, snap, err := o.check(ctx, false)
				if err != nil {
					logger.Error("Scheduled check failed", logger.Fields{"schedule": schedule}, err)
					return
				}
				if result.CaseCount == 0 && len(result.Changes) == 0 {
					logger.Info("No new hearings", logger.Fields{"search": result.Search.Key()})
				} else if err := WriteOutput(cmd.OutOrStdout(), result, outFormat, o.verbose); err != nil {
					logger.Error("Failed to write check output", nil, err)
				}
				if err := deliver(ctx, n, result, snap); err != nil {
					logger.Error("Failed to deliver new hearings", logger.Fields{"cases": result.CaseCount}, err)
				}
			}

			c, err := newScheduler(loc, schedule, job)
			if err != nil {
				return err
			}

			if runNow {
				job()
			}

			c.Start()
			logger.Info("Watching court calendar", logger.Fields{
				"schedule": schedule,
				"timezone": loc.String(),
				"search":   o.params().Key(),
			})

			<-ctx.Done()
			<-c.Stop().Done()
			logger.Info("Watch stopped", nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule (default from config, '0 7 * * 1-5')")
	cmd.Flags().StringVar(&format, "format", string(FormatText), "Output format: text or json")
	cmd.Flags().BoolVar(&runNow, "now", false, "Run a check immediately before the first scheduled one")
	notify.register(cmd)

	return cmd
}
