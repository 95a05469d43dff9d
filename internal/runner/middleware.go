package runner

import (
	"context"
	"log/slog"
)

// loggingBencher wraps a Bencher with structured run logging.
type loggingBencher struct {
	Bencher
	logger *slog.Logger
}

// WithLogging wraps a Bencher so each Run is logged: start and finish at
// debug level, failures at error level.
func WithLogging(b Bencher, logger *slog.Logger) Bencher {
	if logger == nil {
		return b
	}
	return &loggingBencher{
		Bencher: b,
		logger:  logger,
	}
}

func (l *loggingBencher) Run(ctx context.Context) error {
	before := l.Log()
	l.logger.Debug("benchmark starting",
		"label", before.Label,
		"policy", before.Policy.String())

	err := l.Bencher.Run(ctx)
	after := l.Log()
	if err != nil {
		l.logger.Error("benchmark failed",
			"label", after.Label,
			"iterations", after.Iterations,
			"elapsed", after.Elapsed,
			"error", err)
		return err
	}

	l.logger.Debug("benchmark finished",
		"label", after.Label,
		"iterations", after.Iterations,
		"elapsed", after.Elapsed)
	return nil
}
