// Package lifecycle turns process signals into calls on a server's lifecycle hooks.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// ExitCodeInterrupt is 128 + SIGINT.
const ExitCodeInterrupt = 130

// Hooks is the lifecycle surface of a running server.
type Hooks interface {
	Stop(ctx context.Context) error
	Kill() error
	Done() <-chan struct{}
	Wait() error
}

// Run blocks until a signal arrives, ctx is cancelled, or the server exits on its own,
// and returns the process exit code.
//
// SIGTERM and ctx cancellation stop gracefully, falling back to Kill once grace elapses.
// SIGINT kills immediately and yields ExitCodeInterrupt, including while a drain is running.
func Run(ctx context.Context, signals <-chan os.Signal, h Hooks, grace time.Duration) int {
	select {
	case sig := <-signals:
		if isInterrupt(sig) {
			return interrupt(h)
		}
		log.Info().Str("signal", sig.String()).Msg("terminating")
		return stop(signals, h, grace)

	case <-ctx.Done():
		log.Info().Msg("terminating")
		return stop(signals, h, grace)

	case <-h.Done():
		if err := h.Wait(); err != nil {
			log.Error().Err(err).Msg("server exited")
			return 1
		}
		return 0
	}
}

func isInterrupt(sig os.Signal) bool { return sig == os.Interrupt || sig == syscall.SIGINT }

func interrupt(h Hooks) int {
	log.Info().Msg("interrupted")
	if err := h.Kill(); err != nil {
		log.Error().Err(err).Msg("kill failed")
	}
	return ExitCodeInterrupt
}

// stop drains with a grace deadline. A SIGINT during the drain aborts it.
func stop(signals <-chan os.Signal, h Hooks, grace time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	stopped := make(chan error, 1)
	go func() { stopped <- h.Stop(ctx) }()

	var err error
wait:
	for {
		select {
		case err = <-stopped:
			break wait
		case sig := <-signals:
			if isInterrupt(sig) {
				cancel()
				return interrupt(h)
			}
			log.Info().Str("signal", sig.String()).Msg("already terminating")
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn().Dur("grace", grace).Msg("drain timed out, closing connections")
		err = h.Kill()
	}
	if err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		return 1
	}
	if err := h.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
		return 1
	}
	log.Info().Msg("server stopped")
	return 0
}
