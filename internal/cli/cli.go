package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/handlergrid/internal/app"
	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/format"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// options are the persistent flags shared by every command.
type options struct {
	manifests []string
	logLevel  string
	logFormat string
	cacheTTL  time.Duration
	output    string

	outW   io.Writer
	errW   io.Writer
	loader datastore.Loader
}

// Run parses args and executes the selected command. Results go to outW,
// logs to errW.
func Run(ctx context.Context, args []string, outW, errW io.Writer, loader datastore.Loader) error {
	slog.Debug("CLI parser started.")
	root := NewRootCommand(outW, errW, loader)
	// cobra falls back to os.Args for nil.
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err)
	}
	return err
}

// NewRootCommand builds the handlergrid command tree.
func NewRootCommand(outW, errW io.Writer, loader datastore.Loader) *cobra.Command {
	o := &options{outW: outW, errW: errW, loader: loader}

	root := &cobra.Command{
		Use:   "handlergrid",
		Short: "Resolve typed handler plugins from field manifests",
		Long: `handlergrid resolves the handler plugin of a table field for a handler
category (field, filter, sort, argument, ...) from HCL manifests, with
layered defaults, a fallback to a broken handler and cached plugin discovery.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringSliceVarP(&o.manifests, "manifests", "m", nil, "Manifest file or directory of .hcl files. Repeatable.")
	pf.StringVar(&o.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&o.logFormat, "log-format", "json", "Log output format. Options: 'text' or 'json'.")
	pf.DurationVar(&o.cacheTTL, "cache-ttl", 0, "How long discovered plugin definitions stay cached. 0 keeps them until invalidated.")
	pf.StringVarP(&o.output, "output", "o", string(format.OutputTable), "Output format. Options: 'table', 'markdown', 'json', 'yaml'.")

	root.AddCommand(
		newResolveCommand(o),
		newDefinitionsCommand(o),
		newDataCommand(o),
		newValidateCommand(o),
		newServeCommand(o),
		newInvalidateCommand(),
	)
	return root
}

// outputFormat validates the --output flag.
func (o *options) outputFormat() (format.Output, error) {
	out, err := format.ParseOutput(o.output)
	if err != nil {
		return "", usageError(err)
	}
	return out, nil
}

// config validates the persistent flags and builds the app configuration.
// configure, when given, fills in command-specific settings.
func (o *options) config(configure func(*app.Config)) (*app.Config, error) {
	logFormat := strings.ToLower(o.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(o.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "warning", "error":
		// valid
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg := app.Config{
		ManifestPaths: o.manifests,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		CacheTTL:      o.cacheTTL,
	}
	if configure != nil {
		configure(&cfg)
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("CLI parameter validation complete.", "config", config)
	return config, nil
}

// newApp validates the flags and builds the application.
func (o *options) newApp(configure func(*app.Config)) (*app.App, error) {
	cfg, err := o.config(configure)
	if err != nil {
		return nil, err
	}
	a, err := app.NewApp(o.errW, cfg, o.loader)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// minArgs is cobra.MinimumNArgs reporting a usage error.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
