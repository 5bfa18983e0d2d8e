package middleware

import (
	"net/http"
	"strings"

	appjwt "travkings/internal/lib/jwt"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	SessionName     = "session"
	SessionTokenKey = "token"

	adminLoginPath = "/admin/login"

	// ContextAdminKey is where the gate stores the authenticated admin.
	ContextAdminKey = "admin"
)

// AdminGate protects admin pages behind the session cookie. Requests with a
// missing, malformed or expired token are redirected to the login page
// instead of getting a bare 401, admin routes are browser-facing.
func AdminGate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if path == adminLoginPath || strings.HasPrefix(path, "/api/auth/") {
				return next(c)
			}

			sess, err := session.Get(SessionName, c)
			if err != nil {
				return c.Redirect(http.StatusFound, adminLoginPath)
			}

			token, ok := sess.Values[SessionTokenKey].(string)
			if !ok || token == "" {
				return c.Redirect(http.StatusFound, adminLoginPath)
			}

			admin, err := appjwt.ParseSessionToken(token, secret)
			if err != nil {
				return c.Redirect(http.StatusFound, adminLoginPath)
			}

			c.Set(ContextAdminKey, admin)

			return next(c)
		}
	}
}
