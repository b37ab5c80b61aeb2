package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler(body string) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestRouter_ExactMatch(t *testing.T) {
	r := New()
	r.GET("/api/v1/analyses", okHandler("list"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "list", rec.Body.String())
}

func TestRouter_WildcardSegment(t *testing.T) {
	r := New()
	r.GET("/api/v1/analyses/*/report", okHandler("report"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/abc-123/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "report", rec.Body.String())

	// wildcard covers exactly one segment
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/report", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RegistrationOrderWins(t *testing.T) {
	r := New()
	r.GET("/api/v1/analyses/*/errors", okHandler("errors"))
	r.GET("/api/v1/analyses/*", okHandler("detail"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/abc/errors", nil))
	require.Equal(t, "errors", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/abc", nil))
	require.Equal(t, "detail", rec.Body.String())
}

func TestRouter_TrailingWildcard(t *testing.T) {
	r := New()
	r.GET("/swagger/*", okHandler("docs"))

	for _, path := range []string{"/swagger/index.html", "/swagger/doc.json", "/swagger/a/b/c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := New()
	r.POST("/api/v1/analyses", okHandler("create"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/analyses", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_NotFound(t *testing.T) {
	r := New()
	r.GET("/known", okHandler("ok"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Routes(t *testing.T) {
	r := New()
	r.POST("/a", okHandler(""))
	r.GET("/b", okHandler(""))

	require.Equal(t, []string{"POST:/a", "GET:/b"}, r.Routes())
}
