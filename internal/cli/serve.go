package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/court-calendar/internal/api"
	"github.com/pfrederiksen/court-calendar/internal/scraper"
)

func newServeCmd(o *options) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve attorney searches over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = o.cfg.ListenAddr
			}
			enc, err := o.encoder()
			if err != nil {
				return err
			}

			app := api.New(scraper.New(o.cfg.ScraperOptions()...), enc, o.cfg.Annotations())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.ListenAndServe(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config, ':8000')")

	return cmd
}
