package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brasilsearch/pkg/requestcontext"
)

func serve(t *testing.T, inbound string) (ctxID string, rec *httptest.ResponseRecorder) {
	t.Helper()
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = requestcontext.RequestID(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		r.Header.Set(Header, inbound)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return ctxID, rec
}

func TestMiddleware_GeneratesID(t *testing.T) {
	id, rec := serve(t, "")

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Header().Get(Header))
}

func TestMiddleware_ReusesInboundID(t *testing.T) {
	id, rec := serve(t, "edge-1234")

	assert.Equal(t, "edge-1234", id)
	assert.Equal(t, "edge-1234", rec.Header().Get(Header))
}

func TestMiddleware_ReplacesOversizedID(t *testing.T) {
	id, _ := serve(t, strings.Repeat("x", maxLen+1))

	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}
