package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/handlergrid/internal/cli"
	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/hcl"
)

// main is the entrypoint for the handlergrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:], hcl.NewLoader()); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Module registration panics on programmer errors such as a
// duplicate plugin id; those are reported as errors.
func run(ctx context.Context, outW, errW io.Writer, args []string, loader datastore.Loader) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	return cli.Run(ctx, args, outW, errW, loader)
}
