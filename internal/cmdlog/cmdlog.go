package cmdlog

import (
	"context"
	"time"

	"wallfetch/internal/logging"
	"wallfetch/internal/metrics"
)

// Run executes a CLI command body, counting it and logging the outcome.
func Run(ctx context.Context, cmd string, f func(ctx context.Context) error) error {
	log := logging.From(ctx).With().Str("cmd", cmd).Logger()
	ctx = logging.Into(ctx, log)
	metrics.IncCommandRun(cmd)
	start := time.Now()
	err := f(ctx)
	if err != nil {
		metrics.IncCommandError(cmd)
		log.Error().Err(err).Dur("took", time.Since(start)).Msg("command failed")
	} else {
		log.Info().Dur("took", time.Since(start)).Msg("command ok")
	}
	return err
}
