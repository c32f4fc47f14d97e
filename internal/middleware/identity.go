package middleware

// identity.go resolves the acting user for every gateway request.  The
// backend contract identifies users by name: callers send an X-User-Name
// header, and clients that authenticate upstream may instead present a
// bearer JWT whose sub claim carries the name.  The header wins when both
// are present.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	userHeader  = "X-User-Name"
	usernameKey = "username"
)

var errNoIdentity = errors.New("no user identity in context")

// Identity returns middleware that stores the acting user's name in the
// Echo context.  Requests carrying neither an X-User-Name header nor a
// verifiable bearer token are rejected with 401.  An empty jwtSecret
// disables the JWT fallback.
func Identity(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if name := c.Request().Header.Get(userHeader); name != "" {
				c.Set(usernameKey, name)
				return next(c)
			}
			if name := subjectFromBearer(c, jwtSecret); name != "" {
				c.Set(usernameKey, name)
				return next(c)
			}
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "user identity required"})
		}
	}
}

// subjectFromBearer extracts the sub claim from a valid HMAC-signed bearer
// token, or returns "" when the request carries none.
func subjectFromBearer(c echo.Context, secret string) string {
	if secret == "" {
		return ""
	}
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || raw == "" {
		return ""
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return ""
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

// Username returns the acting user stored by Identity.  Handlers treat an
// error as 401.
func Username(c echo.Context) (string, error) {
	v, ok := c.Get(usernameKey).(string)
	if !ok || v == "" {
		return "", errNoIdentity
	}
	return v, nil
}
