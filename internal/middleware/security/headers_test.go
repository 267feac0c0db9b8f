package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serve(cfg HeadersConfig, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	Headers(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, req)
	return rec
}

func TestHeaders_Defaults(t *testing.T) {
	rec := serve(DefaultHeadersConfig(), httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", rec.Header().Get("Content-Security-Policy"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestHeaders_HSTSOnlyOverTLS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://ledger.local/healthz", nil)
	req.TLS = &tls.ConnectionState{}

	rec := serve(DefaultHeadersConfig(), req)

	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}

func TestHeaders_EmptyValuesSkipped(t *testing.T) {
	rec := serve(HeadersConfig{XContentTypeOptions: "nosniff"}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	_, present := rec.Header()["X-Frame-Options"]
	assert.False(t, present)
}
