package invalidation

import (
	"context"
	"errors"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
)

// Publish connects to the socket.io server, emits one invalidation event
// carrying tags and disconnects.
func Publish(ctx context.Context, cfg Config, tags ...string) error {
	if len(tags) == 0 {
		return errors.New("at least one tag is required")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return err
	}
	ctx, logger := ctxlog.With(ctx, "component", "invalidation", "url", cfg.URL, "event", cfg.Event)

	io, err := dial(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer io.Disconnect()

	if err := io.Emit(cfg.Event, map[string]any{"tags": tags}); err != nil {
		return err
	}
	logger.Info("Published cache invalidation.", "tags", tags)
	return nil
}
