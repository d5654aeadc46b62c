package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/court-calendar/internal/calendar"
	"github.com/pfrederiksen/court-calendar/internal/config"
	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/logger"
	"github.com/pfrederiksen/court-calendar/internal/scraper"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNewCases = 2
)

// ExitCodeError asks Execute to exit with Code without printing anything.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// options holds the flag values shared by all commands.
type options struct {
	configPath string
	verbose    bool

	first    string
	last     string
	date     string
	location string
	kind     string

	cfg config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "court-calendar",
		Short: "Search the Utah court calendar by attorney and export hearings",
		Long: `A CLI tool to search the Utah state court calendar by attorney name.
Prints the matching hearings, exports them as iCalendar or CSV, reports hearings
added since the last check, and serves the same searches over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Config file (default ~/.config/court-calendar/config.yaml)")
	pf.BoolVar(&o.verbose, "verbose", false, "Enable verbose logging")
	pf.StringVar(&o.first, "first", "", "Attorney first name")
	pf.StringVar(&o.last, "last", "", "Attorney last name")
	pf.StringVar(&o.date, "date", "", "Hearing date: 'all' or YYYY-MM-DD")
	pf.StringVar(&o.location, "location", "", "Court location code or 'all'")
	pf.StringVar(&o.kind, "type", "", "Search type code (default 'a', attorney)")

	cmd.AddCommand(
		newSearchCmd(o),
		newICSCmd(o),
		newCSVCmd(o),
		newCheckCmd(o),
		newWatchCmd(o),
		newServeCmd(o),
	)

	return cmd
}

// setup loads configuration and configures logging before any subcommand runs.
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	o.cfg = cfg

	if o.verbose {
		logger.SetDefault(logger.NewConsole(logger.LevelDebug, cmd.ErrOrStderr()))
	} else {
		logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr()))
	}

	logger.Debug("Configuration loaded", logger.Fields{
		"config":   o.configPath,
		"base_url": cfg.BaseURL,
		"data_dir": cfg.DataDir,
		"timezone": cfg.Timezone,
	})
	return nil
}

// params merges the search flags over the configured search defaults.
func (o *options) params() scraper.SearchParams {
	p := o.cfg.Search
	override := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	override(&p.Type, o.kind)
	override(&p.FirstName, o.first)
	override(&p.LastName, o.last)
	override(&p.Date, o.date)
	override(&p.Location, o.location)
	return p.Normalize()
}

// search validates the search flags and runs the search.
func (o *options) search(ctx context.Context) (scraper.SearchParams, []hearing.Case, error) {
	params := o.params()
	if err := params.Validate(); err != nil {
		return params, nil, err
	}

	logger.Debug("Searching court calendar", logger.Fields{
		"first_name": params.FirstName,
		"last_name":  params.LastName,
		"date":       params.Date,
		"location":   params.Location,
	})

	cases, err := scraper.New(o.cfg.ScraperOptions()...).Search(ctx, params)
	if err != nil {
		return params, nil, fmt.Errorf("searching court calendar: %w", err)
	}
	return params, cases, nil
}

func (o *options) encoder() (*calendar.Encoder, error) {
	loc, err := o.cfg.Location()
	if err != nil {
		return nil, err
	}
	return calendar.NewEncoder(loc), nil
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitError
}
