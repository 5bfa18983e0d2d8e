package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-Requested-With"
	corsMaxAge       = "86400"
)

// CORS reflects the Origin header back only when it matches the allow-list.
// Entries starting with "*." match the bare host and any of its subdomains.
// Unknown origins get no CORS headers at all, the browser blocks the response.
// Only /api paths are covered, preflight elsewhere falls through to routing.
func CORS(allowedOrigins []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().URL.Path, "/api") {
				return next(c)
			}

			origin := c.Request().Header.Get(echo.HeaderOrigin)

			if origin != "" && originAllowed(origin, allowedOrigins) {
				h := c.Response().Header()
				h.Set(echo.HeaderAccessControlAllowOrigin, origin)
				h.Set(echo.HeaderAccessControlAllowCredentials, "true")
				h.Set(echo.HeaderVary, echo.HeaderOrigin)
			}

			if c.Request().Method == http.MethodOptions {
				h := c.Response().Header()
				h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
				h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				h.Set(echo.HeaderAccessControlMaxAge, corsMaxAge)

				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

func originAllowed(origin string, allowed []string) bool {
	host := origin
	if i := strings.Index(origin, "://"); i >= 0 {
		host = origin[i+3:]
	}

	for _, a := range allowed {
		if a == origin {
			return true
		}

		if strings.HasPrefix(a, "*.") {
			if host == a[2:] || strings.HasSuffix(host, a[1:]) {
				return true
			}
		}
	}

	return false
}
