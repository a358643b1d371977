package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/handlergrid/internal/format"
)

func newValidateCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every declared handler refers to a registered plugin",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := o.outputFormat()
			if err != nil {
				return err
			}
			a, err := o.newApp(nil)
			if err != nil {
				return err
			}

			problems := a.Validate(cmd.Context())
			w := cmd.OutOrStdout()
			if out.Structured() {
				if problems == nil {
					problems = []string{}
				}
				if err := format.Encode(w, out, map[string]any{"problems": problems}); err != nil {
					return err
				}
			} else if len(problems) == 0 {
				fmt.Fprintln(w, format.Status(false), "All handler declarations refer to registered plugins.")
			} else {
				for _, p := range problems {
					fmt.Fprintln(w, format.Status(true), p)
				}
			}

			if len(problems) > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d handler declaration(s) refer to unregistered plugins", len(problems))}
			}
			return nil
		},
	}
}
