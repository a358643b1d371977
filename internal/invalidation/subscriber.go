package invalidation

import (
	"context"
	"errors"
	"fmt"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/handlergrid/internal/cache"
	"github.com/specialistvlad/handlergrid/internal/ctxlog"
)

// Subscriber applies remote invalidations to a local cache.
type Subscriber struct {
	cfg    Config
	target cache.TagInvalidator
}

// NewSubscriber validates cfg and creates a subscriber invalidating target.
func NewSubscriber(cfg Config, target cache.TagInvalidator) (*Subscriber, error) {
	if target == nil {
		return nil, errors.New("invalidation target is required")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Subscriber{cfg: cfg, target: target}, nil
}

// Run connects and applies invalidations until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	ctx, logger := ctxlog.With(ctx, "component", "invalidation", "url", s.cfg.URL, "event", s.cfg.Event)

	io, err := dial(ctx, s.cfg, logger, func(io *socket.Socket) {
		io.On(types.EventName(s.cfg.Event), func(data ...any) {
			if err := s.Apply(ctx, data...); err != nil {
				logger.Warn("Failed to apply remote invalidation.", "error", err)
			}
		})
		io.On(types.EventName("disconnect"), func(reason ...any) {
			logger.Warn("Disconnected from invalidation server.", "reason", fmt.Sprint(reason...))
		})
	})
	if err != nil {
		return err
	}
	defer io.Disconnect()

	logger.Info("Listening for cache invalidations.")
	<-ctx.Done()
	logger.Info("Invalidation subscriber stopped.")
	return nil
}

// Apply invalidates the tags carried by an event payload.
func (s *Subscriber) Apply(ctx context.Context, data ...any) error {
	tags, err := parseTags(data...)
	if err != nil {
		return err
	}
	if err := Invalidate(ctx, s.target, tags...); err != nil {
		return err
	}
	if len(tags) > 0 {
		ctxlog.FromContext(ctx).Info("Applied remote invalidation.", "tags", tags)
	}
	return nil
}

// Invalidate drops every cache entry carrying one of tags. Patterns go
// through the target's pattern support when it has one and are otherwise
// treated as plain tags.
func Invalidate(ctx context.Context, target cache.TagInvalidator, tags ...string) error {
	logger := ctxlog.FromContext(ctx)
	plain := make([]string, 0, len(tags))
	pi, canMatch := target.(cache.PatternInvalidator)
	for _, tag := range tags {
		if canMatch && isPattern(tag) {
			n, err := pi.InvalidateMatching(ctx, tag)
			if err != nil {
				return err
			}
			logger.Debug("Invalidated tags by pattern.", "pattern", tag, "matched", n)
			continue
		}
		plain = append(plain, tag)
	}

	if len(plain) > 0 {
		if err := target.InvalidateTags(ctx, plain...); err != nil {
			return fmt.Errorf("failed to invalidate tags: %w", err)
		}
	}
	return nil
}
