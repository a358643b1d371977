package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/specialistvlad/handlergrid/internal/app"
	"github.com/specialistvlad/handlergrid/internal/invalidation"
)

// addInvalidationFlags binds the socket.io invalidation flags to cfg.
func addInvalidationFlags(f *pflag.FlagSet, cfg *invalidation.Config) {
	f.StringVar(&cfg.URL, "invalidation-url", "", "socket.io server that broadcasts cache invalidations.")
	f.StringVar(&cfg.Namespace, "invalidation-namespace", "/", "socket.io namespace of the invalidation server.")
	f.StringVar(&cfg.Event, "invalidation-event", invalidation.DefaultEvent, "Event carrying invalidation tags.")
	f.BoolVar(&cfg.InsecureSkipVerify, "invalidation-insecure", false, "Skip TLS certificate verification.")
	f.DurationVar(&cfg.ConnectTimeout, "invalidation-timeout", 0, "Connection timeout. 0 uses the default.")
}

func newServeCommand(o *options) *cobra.Command {
	var (
		port int
		inv  invalidation.Config
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve handler resolution and cache invalidation over HTTP",
		Long: `Serve the HTTP API:

  GET  /health
  GET  /resolve?category=&table=&field=&plugin=&override=&aggregate=
  GET  /definitions?category=
  POST /cache/invalidate?tags=a,b

With --invalidation-url the server also applies invalidations broadcast
over socket.io, so several processes can drop stale definitions together.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.newApp(func(cfg *app.Config) {
				cfg.HealthcheckPort = port
				cfg.Invalidation = inv
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		},
	}

	f := cmd.Flags()
	f.IntVar(&port, "healthcheck-port", 8080, "Port for the HTTP server.")
	addInvalidationFlags(f, &inv)
	return cmd
}
