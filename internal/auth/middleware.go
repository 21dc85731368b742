package auth

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "reelforge/internal/errors"
)

// claimsContextKey is where verified claims live on the echo context.
const claimsContextKey = "claims"

// Middleware gates a route group behind a bearer token.
// A missing or non-Bearer Authorization header fails with Unauthorized before any
// verification happens; a token that fails verification or was revoked fails
// with "Invalid or expired token". store may be nil to disable revocation checks.
func Middleware(jwtService *JWTService, store TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := jwtService.Verify(auth)
			if err != nil {
				return nil, err
			}
			if store != nil {
				revoked, _ := store.IsRevoked(c.Request().Context(), claims.ID)
				if revoked {
					return nil, apperrors.ErrInvalidToken
				}
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var extractErr *echojwt.TokenExtractionError
			if errors.As(err, &extractErr) {
				return apperrors.ErrMissingToken
			}
			return apperrors.ErrInvalidToken
		},
	})
}

// RequireRole rejects callers whose role claim differs from role with Forbidden.
// It must run after Middleware.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return apperrors.ErrMissingToken
			}
			if claims.Role != role {
				return apperrors.ErrAdminOnly
			}
			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims attached by Middleware.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
