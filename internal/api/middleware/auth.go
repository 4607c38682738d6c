package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

// DefaultCookieName is the cookie the login endpoint sets.
const DefaultCookieName = "jwt_token"

// TokenDecoder verifies a raw token and returns the principal it carries.
type TokenDecoder interface {
	Decode(raw string) (domain.Principal, error)
}

type AuthConfig struct {
	Decoder    TokenDecoder
	Public     PublicPaths
	CookieName string
	Log        zerolog.Logger
}

// Authenticate runs once per request before any handler. Public paths pass
// through without a principal. Every other path must carry a token in the
// auth cookie or, failing that, an Authorization: Bearer header; the decoded
// principal is attached to the context. Rejections are returned as domain
// errors for the HTTP error handler to render.
//
// Only the in-memory signature check happens here; roles come from the token
// and the user store is never consulted.
func Authenticate(cfg AuthConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if cfg.Public.Match(path) {
				return next(c)
			}

			raw, err := extractToken(c, cfg.CookieName)
			if err != nil {
				cfg.Log.Warn().Str("path", path).Str("reason", err.Error()).Msg("request rejected")
				return err
			}

			p, err := cfg.Decoder.Decode(raw)
			if err != nil {
				if !domain.IsTokenError(err) {
					return fmt.Errorf("authenticate: %w", err)
				}
				cfg.Log.Warn().Str("path", path).Err(err).Msg("request rejected")
				return err
			}

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// extractToken prefers the cookie over the Authorization header.
func extractToken(c echo.Context, cookieName string) (string, error) {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", domain.ErrTokenMissing
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("%w: invalid authorization header", domain.ErrTokenMalformed)
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return "", domain.ErrTokenMissing
	}
	return raw, nil
}
