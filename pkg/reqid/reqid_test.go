package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/reqid"
)

func serve(t *testing.T, header string) (seen, echoed string) {
	t.Helper()
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(reqid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec.Header().Get(reqid.Header)
}

func TestGeneratesID(t *testing.T) {
	seen, echoed := serve(t, "")
	assert.Equal(t, seen, echoed)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}

func TestHonoursUpstreamID(t *testing.T) {
	seen, echoed := serve(t, "gateway-123")
	assert.Equal(t, "gateway-123", seen)
	assert.Equal(t, "gateway-123", echoed)
}

func TestReplacesOversizedID(t *testing.T) {
	seen, _ := serve(t, strings.Repeat("x", 500))
	assert.Len(t, seen, 36)
}

func TestFromCtxEmpty(t *testing.T) {
	assert.Empty(t, reqid.FromCtx(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
