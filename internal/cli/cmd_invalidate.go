package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/handlergrid/internal/invalidation"
)

func newInvalidateCommand() *cobra.Command {
	var inv invalidation.Config
	cmd := &cobra.Command{
		Use:   "invalidate TAG...",
		Short: "Broadcast a cache invalidation to every subscribed server",
		Example: `  handlergrid invalidate plugins:filter --invalidation-url http://localhost:3000
  handlergrid invalidate 'plugins:*' --invalidation-url http://localhost:3000`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inv.URL == "" {
				return usageError(errors.New("--invalidation-url is required"))
			}
			if err := invalidation.Publish(cmd.Context(), inv, args...); err != nil {
				return fmt.Errorf("failed to publish invalidation: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %d tag(s).\n", len(args))
			return nil
		},
	}
	addInvalidationFlags(cmd.Flags(), &inv)
	return cmd
}
