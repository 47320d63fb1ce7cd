package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupJoinsPrefixAndMiddleware(t *testing.T) {
	r := New()
	api := r.Group("/api/", tag("api"))
	api.Get("/products/{id}", "products.show", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/3", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"api", "route"}, rec.Header().Values("X-Chain"))
}

func TestURL(t *testing.T) {
	r := New()
	r.Group("api").Get("products/{id}", "products.show", func(http.ResponseWriter, *http.Request) {})

	u, err := r.URL("products.show", map[string]string{"id": "12"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/12", u)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesListing(t *testing.T) {
	r := New()
	noop := func(http.ResponseWriter, *http.Request) {}
	api := r.Group("/api")
	api.Post("/products", "products.store", noop)
	api.Get("/products", "products.index", noop)
	r.Handle(http.MethodGet, "/metrics", "", http.NotFoundHandler())

	assert.Equal(t, []Route{
		{Method: "GET", Path: "/api/products", Name: "products.index"},
		{Method: "POST", Path: "/api/products", Name: "products.store"},
		{Method: "GET", Path: "/metrics"},
	}, r.Routes())
}

func TestCustomNotFound(t *testing.T) {
	r := New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
