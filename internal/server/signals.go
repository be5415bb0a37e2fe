package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// NotifyShutdown returns a context that is canceled on SIGINT or SIGTERM.
// Its cause names the signal. Calling stop cancels it without one.
func NotifyShutdown(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			cancel(fmt.Errorf("received %s", sig))
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(nil) }
}
