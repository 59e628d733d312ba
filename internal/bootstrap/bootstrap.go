// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ShutdownHook releases a resource during graceful shutdown.
type ShutdownHook func(ctx context.Context) error

// App manages the process lifecycle with graceful shutdown support.
type App struct {
	mu    sync.Mutex
	hooks []ShutdownHook
}

// New creates a new App.
func New() *App {
	return &App{}
}

// AddShutdownHook registers a hook to call during graceful shutdown.
// Hooks run in reverse registration order. Thread-safe.
func (a *App) AddShutdownHook(hook ShutdownHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, hook)
}

// Run executes the run function with a context that is cancelled on
// SIGINT or SIGTERM. When the signal arrives, registered shutdown hooks
// run in LIFO order and their joined error is returned. An error from
// run before any signal is returned as is.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return a.shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
