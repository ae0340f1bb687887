package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/diabeto/patient-registry/internal/repository"
    "github.com/diabeto/patient-registry/internal/utils"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// SessionAuth returns an Echo middleware that validates the session cookie
// and injects the authenticated physician's id and username into the request
// context. The provided secret must match the one used when issuing session
// tokens at login; revoked holds the logout denylist and may wrap a nil
// Redis client. This middleware wraps every protected route so handlers can
// read identity via `c.Get("physician_id")` and `c.Get("username")`.
//
// Unauthenticated browsers are redirected to the login page rather than
// answered with a hard 401: a missing, expired, tampered or logged-out
// cookie all take the same redirect path so nothing about account or
// session state leaks.
func SessionAuth(secret string, revoked *repository.RevocationStore) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie(SessionCookieName)
            if err != nil || cookie.Value == "" {
                return c.Redirect(http.StatusSeeOther, "/")
            }
            sess, _, err := utils.ParseSessionToken(secret, cookie.Value)
            if err != nil {
                return c.Redirect(http.StatusSeeOther, "/")
            }
            if revoked.IsRevoked(c.Request().Context(), utils.HashSessionRaw(cookie.Value)) {
                return c.Redirect(http.StatusSeeOther, "/")
            }
            c.Set("physician_id", sess.PhysicianID)
            c.Set("username", sess.Username)
            return next(c)
        }
    }
}
