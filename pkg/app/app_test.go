package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

func pingRoutes(r *router.Router) error {
	r.Get("/ping", "ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/panic", "panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	return nil
}

func TestHandlerAppliesMiddleware(t *testing.T) {
	a := New().Routes(pingRoutes)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	h, err := a.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestShutdownStopsBackgroundWorkOnce(t *testing.T) {
	a := New()
	require.NoError(t, a.Shutdown(context.Background()))
	require.NoError(t, a.Shutdown(context.Background()))

	select {
	case <-a.stop:
	default:
		t.Fatal("stop channel still open after Shutdown")
	}
}

func TestServeStopsEveryServerWhenOneFails(t *testing.T) {
	listenFailed := errors.New("listen tcp :9090: address already in use")
	var closed bool
	a := New().
		Routes(pingRoutes).
		Run(func(context.Context) error { return listenFailed }).
		OnShutdown(func(context.Context) error { closed = true; return nil })

	err := a.Serve(context.Background(), "127.0.0.1:0")
	assert.ErrorIs(t, err, listenFailed)
	assert.True(t, closed, "shutdown hooks run after a failed server")
}

func TestServeCancelsSideServersWithTheContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var sideStopped, hookRan bool

	a := New().
		Routes(pingRoutes).
		Run(func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			sideStopped = true
			return nil
		}).
		OnShutdown(func(context.Context) error {
			hookRan = sideStopped
			return nil
		})

	go func() {
		<-started
		cancel()
	}()
	require.NoError(t, a.Serve(ctx, "127.0.0.1:0"))
	assert.True(t, hookRan, "hooks run after side servers return")
}

func TestRouteErrorStopsBuild(t *testing.T) {
	boom := errors.New("schema invalid")
	_, err := New().Routes(func(*router.Router) error { return boom }).Handler()
	assert.ErrorIs(t, err, boom)
}

func TestShutdownRunsHooksNewestFirst(t *testing.T) {
	var order []string
	failed := errors.New("close failed")
	a := New().
		OnShutdown(func(context.Context) error { order = append(order, "store"); return nil }).
		OnShutdown(func(context.Context) error { order = append(order, "cache"); return failed })

	err := a.Shutdown(context.Background())
	assert.ErrorIs(t, err, failed)
	assert.Equal(t, []string{"cache", "store"}, order)
}

func TestPrintRoutes(t *testing.T) {
	r, err := New().Routes(pingRoutes).Router()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintRoutes(&buf, r))
	assert.Contains(t, buf.String(), "GET      /ping    ping")

	buf.Reset()
	require.NoError(t, PrintRoutes(&buf, router.New()))
	assert.Equal(t, "No routes registered.\n", buf.String())
}
