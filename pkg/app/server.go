package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/catalog/internal/server"
)

// Serve builds the handler and serves it on addr, together with every server
// added through Run, until ctx is cancelled or one of them fails. The
// shutdown hooks run once all of them have stopped.
func (a *Application) Serve(ctx context.Context, addr string) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(gctx, addr, handler) })
	for _, run := range a.servers {
		run := run
		g.Go(func() error { return run(gctx) })
	}
	serveErr := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		return err
	}
	return serveErr
}
