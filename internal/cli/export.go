package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/court-calendar/internal/export"
	"github.com/pfrederiksen/court-calendar/internal/filter"
	"github.com/pfrederiksen/court-calendar/internal/logger"
)

// filterFlags are the hearing filters shared by search, ics and csv.
type filterFlags struct {
	virtual    bool
	inPerson   bool
	courts     []string
	courtTypes []string
	from       string
	to         string
	dateRange  string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.virtual, "virtual", false, "Only virtual (WebEx) hearings")
	fl.BoolVar(&f.inPerson, "in-person", false, "Only in-person hearings")
	fl.StringSliceVar(&f.courts, "court", nil, "Court name contains (repeatable)")
	fl.StringSliceVar(&f.courtTypes, "court-type", nil, "Court type contains, e.g. district or justice (repeatable)")
	fl.StringVar(&f.from, "from", "", "Earliest hearing date (YYYY-MM-DD or M/D/YYYY)")
	fl.StringVar(&f.to, "to", "", "Latest hearing date (YYYY-MM-DD or M/D/YYYY)")
	fl.StringVar(&f.dateRange, "range", "", "Date range such as 'Mar 1-15' or 'March'")
}

func (f *filterFlags) build() (*filter.Filter, error) {
	flt := filter.NewFilter()
	flt.VirtualOnly = f.virtual
	flt.InPersonOnly = f.inPerson
	flt.Courts = append(flt.Courts, f.courts...)
	flt.CourtTypes = append(flt.CourtTypes, f.courtTypes...)

	if f.dateRange != "" {
		from, to, err := filter.ParseDateRange(f.dateRange)
		if err != nil {
			return nil, fmt.Errorf("--range: %w", err)
		}
		flt.DateFrom, flt.DateTo = from, to
	}
	if f.from != "" {
		d, err := filter.ParseDate(f.from)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		flt.DateFrom = &d
	}
	if f.to != "" {
		d, err := filter.ParseDate(f.to)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		flt.DateTo = &d
	}

	if err := flt.Validate(); err != nil {
		return nil, err
	}
	return flt, nil
}

// searchFiltered runs the search and applies the filter flags.
func (o *options) searchFiltered(cmd *cobra.Command, ff *filterFlags) (*OutputResult, error) {
	flt, err := ff.build()
	if err != nil {
		return nil, err
	}

	params, cases, err := o.search(cmd.Context())
	if err != nil {
		return nil, err
	}

	filtered := flt.Apply(cases)
	if !flt.IsEmpty() {
		logger.Debug("Applied filter", logger.Fields{
			"filter": flt.String(),
			"before": len(cases),
			"after":  len(filtered),
		})
	}

	return &OutputResult{
		CheckedAt: time.Now().UTC(),
		Search:    params,
		Cases:     filtered,
		CaseCount: len(filtered),
		Summary:   export.Summarize(filtered),
		Filter:    filterDescription(flt),
		ShowAll:   true,
	}, nil
}

func filterDescription(f *filter.Filter) string {
	if f.IsEmpty() {
		return ""
	}
	return f.String()
}

func newSearchCmd(o *options) *cobra.Command {
	var (
		ff     filterFlags
		format string
		order  string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print hearings for an attorney",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}
			sortOrder, err := parseSortOrder(order)
			if err != nil {
				return err
			}

			result, err := o.searchFiltered(cmd, &ff)
			if err != nil {
				return err
			}
			sortCases(result.Cases, sortOrder)

			return WriteOutput(cmd.OutOrStdout(), result, outFormat, o.verbose)
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(FormatText), "Output format: text or json")
	cmd.Flags().StringVar(&order, "sort", string(SortNone), "Sort order: none, date, court or case")

	return cmd
}

func newICSCmd(o *options) *cobra.Command {
	var (
		ff           filterFlags
		output       string
		splitDir     string
		refLink      string
		contactEmail string
	)

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export hearings as an iCalendar file",
		Long: `Export matching hearings as iCalendar events with a 24 hour reminder.
Writes one combined calendar to --output (or stdout), or one file per hearing
into the --split directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := o.encoder()
			if err != nil {
				return err
			}

			result, err := o.searchFiltered(cmd, &ff)
			if err != nil {
				return err
			}

			ann := o.cfg.Annotations()
			if refLink != "" {
				ann.ReferenceLink = refLink
			}
			if contactEmail != "" {
				ann.ContactEmail = contactEmail
			}

			if splitDir != "" {
				paths, err := enc.WriteCaseFiles(splitDir, result.Cases, ann)
				if err != nil {
					return fmt.Errorf("writing calendar files: %w", err)
				}
				for _, p := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				logger.Info("Wrote calendar files", logger.Fields{
					"dir":     splitDir,
					"files":   len(paths),
					"skipped": len(result.Cases) - len(paths),
				})
				return nil
			}

			doc, skipped := enc.Document(result.Cases, ann)
			if err := writeTo(cmd.OutOrStdout(), output, doc); err != nil {
				return err
			}
			logger.Info("Wrote calendar", logger.Fields{
				"output":  outputName(output),
				"events":  len(result.Cases) - skipped,
				"skipped": skipped,
			})
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the calendar to this file instead of stdout")
	cmd.Flags().StringVar(&splitDir, "split", "", "Write one calendar file per hearing into this directory")
	cmd.Flags().StringVar(&refLink, "reference-link", "", "Link shown at the top of every event description")
	cmd.Flags().StringVar(&contactEmail, "contact-email", "", "Contact email shown in every event description")
	cmd.MarkFlagsMutuallyExclusive("output", "split")

	return cmd
}

func newCSVCmd(o *options) *cobra.Command {
	var (
		ff     filterFlags
		output string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export hearings as CSV",
		Long: `Export matching hearings as CSV to stdout, or to --output.
--save writes court_cases_<FIRST>_<LAST>_<YYYYMMDD>.csv in the current directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := o.searchFiltered(cmd, &ff)
			if err != nil {
				return err
			}

			path := output
			if save {
				path = export.Filename(result.Search.FirstName, result.Search.LastName, time.Now())
			}

			var buf strings.Builder
			if err := export.WriteCSV(&buf, result.Cases); err != nil {
				return err
			}
			if err := writeTo(cmd.OutOrStdout(), path, buf.String()); err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the CSV to this file instead of stdout")
	cmd.Flags().BoolVar(&save, "save", false, "Write the CSV to the default export file name")
	cmd.MarkFlagsMutuallyExclusive("output", "save")

	return cmd
}

// writeTo writes content to path, or to w when path is empty or "-".
func writeTo(w io.Writer, path, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(w, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}
