// Package cli provides shared command-line plumbing.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalContext returns a context cancelled on SIGINT/SIGTERM.
// If a second signal arrives during gracePeriod, os.Exit(1) is called.
//
// Usage:
//
//	ctx, cancel := cli.SignalContext(duration.ShutdownGrace)
//	defer cancel()
func SignalContext(gracePeriod time.Duration) (context.Context, context.CancelFunc) {
	return signalContextWithNotifier(gracePeriod, nil, nil)
}

// signalContextWithNotifier is the internal implementation for testing.
// sigChan, if non-nil, overrides the real signal channel.
// exitFn, if non-nil, overrides os.Exit.
func signalContextWithNotifier(
	gracePeriod time.Duration,
	sigChan chan os.Signal,
	exitFn func(int),
) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	ownChannel := sigChan == nil
	if ownChannel {
		sigChan = make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	}

	if exitFn == nil {
		exitFn = os.Exit
	}

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "Interrupt received, finishing current page...")
			cancel()

			select {
			case <-sigChan:
				exitFn(1)
			case <-time.After(gracePeriod):
			}
		case <-ctx.Done():
		}
		if ownChannel {
			signal.Stop(sigChan)
		}
	}()

	return ctx, cancel
}
