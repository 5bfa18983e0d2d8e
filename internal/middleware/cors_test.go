package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corsEcho(allowed []string) *echo.Echo {
	e := echo.New()
	e.Use(SecurityHeaders)
	e.Use(CORS(allowed))
	e.GET("/api/packages", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func TestCORS_OriginMatrix(t *testing.T) {
	allowed := []string{"https://travkings.com", "*.travkings.com"}

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{"exact match", "https://travkings.com", "https://travkings.com"},
		{"wildcard subdomain", "https://admin.travkings.com", "https://admin.travkings.com"},
		{"nested subdomain", "https://a.b.travkings.com", "https://a.b.travkings.com"},
		{"wildcard accepts bare apex", "http://travkings.com", "http://travkings.com"},
		{"unknown origin gets nothing", "https://evil.example.com", ""},
		{"suffix lookalike rejected", "https://eviltravkings.com", ""},
		{"no origin header", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := corsEcho(allowed)

			req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			// запрос обслуживается в любом случае, браузер сам блокирует ответ
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantHeader, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	e := corsEcho([]string{"https://travkings.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/packages", nil)
	req.Header.Set(echo.HeaderOrigin, "https://travkings.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://travkings.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, corsAllowMethods, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, corsAllowHeaders, rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	assert.Equal(t, corsMaxAge, rec.Header().Get(echo.HeaderAccessControlMaxAge))
}

func TestCORS_SkipsNonAPIPaths(t *testing.T) {
	e := corsEcho([]string{"https://travkings.com"})
	e.GET("/admin/dashboard", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	t.Run("preflight outside api is not short-circuited", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/admin/dashboard", nil)
		req.Header.Set(echo.HeaderOrigin, "https://travkings.com")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.NotEqual(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	})

	t.Run("no cors headers outside api", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.Header.Set(echo.HeaderOrigin, "https://travkings.com")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})
}

func TestSecurityHeaders_AlwaysPresent(t *testing.T) {
	e := corsEcho(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
}
