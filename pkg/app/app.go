// Package app assembles the HTTP application: routes, the global middleware
// stack and the serve/shutdown lifecycle.
//
//	a := app.New().
//	    Routes(func(r *router.Router) error {
//	        return routes.RegisterAPI(r, deps)
//	    }).
//	    OnShutdown(func(ctx context.Context) error { return st.Close(ctx) })
//
//	return a.Serve(ctx, ":"+config.AppPort())
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// Application is the central configuration object for the service.
// Build one with New(), attach routes and shutdown hooks, then call Serve().
type Application struct {
	routesFns  []func(*router.Router) error
	shutdowns  []func(context.Context) error
	servers    []func(context.Context) error
	middleware []router.Middleware

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates an Application with the default middleware stack.
func New() *Application {
	a := &Application{stop: make(chan struct{})}
	a.middleware = defaultMiddleware(a.stop)
	return a
}

// Routes registers a route-registration callback that runs when the
// handler is built. Callbacks run in the order they were added.
func (a *Application) Routes(fn func(*router.Router) error) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Run registers a server that runs beside the HTTP server in Serve. It must
// return once its context is cancelled. An error from it stops every other
// server.
func (a *Application) Run(fn func(context.Context) error) *Application {
	a.servers = append(a.servers, fn)
	return a
}

// OnShutdown registers a hook that runs after every server has stopped
// accepting requests. Hooks run in reverse registration order.
func (a *Application) OnShutdown(fn func(context.Context) error) *Application {
	a.shutdowns = append(a.shutdowns, fn)
	return a
}

// Router builds a router with every registered route and no middleware.
func (a *Application) Router() (*router.Router, error) {
	r := router.New()
	for _, fn := range a.routesFns {
		if err := fn(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Shutdown stops the middleware's background work, then runs the shutdown
// hooks, newest first, and joins their errors.
func (a *Application) Shutdown(ctx context.Context) error {
	a.stopOnce.Do(func() { close(a.stop) })

	var errs []error
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil {
			logger.Error("shutdown hook failed", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
