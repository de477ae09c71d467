package middleware

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
)

const (
	// IdentityKey is the echo context key holding the resolved *auth.Identity.
	IdentityKey   = "identity"
	resolveErrKey = "identity_error"
)

// Resolver turns a bearer token into the identity of an active user.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

// RequireIdentity extracts the bearer token with echo-jwt and resolves it.
// Unresolvable tokens get 401 with a WWW-Authenticate challenge, inactive users get 403.
func RequireIdentity(resolver Resolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: IdentityKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			identity, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				c.Set(resolveErrKey, err)
				return nil, err
			}
			return identity, nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			cause := errors.ErrUnauthenticated
			if resolveErr, ok := c.Get(resolveErrKey).(error); ok {
				cause = resolveErr
			}

			httpErr := errors.MapErrorToHTTP(cause)
			if httpErr.StatusCode == http.StatusUnauthorized {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			}
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(cause)
		},
	})
}

// IdentityFrom returns the identity stored by RequireIdentity.
func IdentityFrom(c echo.Context) (*auth.Identity, bool) {
	identity, ok := c.Get(IdentityKey).(*auth.Identity)
	return identity, ok && identity != nil
}
