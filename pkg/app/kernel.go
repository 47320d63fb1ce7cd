package app

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// defaultMiddleware is the global stack, outermost first:
//  1. Prometheus metrics for accurate total latency
//  2. Recovery, so a panic still counts as a 500 in metrics
//  3. Request ID before anything logs
//  4. Logger, tagged with the request ID
//  5. CORS
//  6. Per-IP rate limiter
//
// Background work started by the stack ends when stop is closed.
func defaultMiddleware(stop <-chan struct{}) []router.Middleware {
	cors := middleware.DefaultCORSOptions()
	cors.AllowedOrigins = middleware.ParseOrigins(config.CORSOrigins())

	return []router.Middleware{
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(cors),
		middleware.RateLimit(config.RateLimitPerMinute(), time.Minute, stop),
	}
}

// Handler builds the HTTP handler: global middleware, then every route.
func (a *Application) Handler() (http.Handler, error) {
	r := router.New()
	r.Use(a.middleware...)
	for _, fn := range a.routesFns {
		if err := fn(r); err != nil {
			return nil, err
		}
	}
	return r.Handler(), nil
}
