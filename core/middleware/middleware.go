package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"community-events-api/core/config"
	"community-events-api/core/constants"
	"community-events-api/core/controller"
	"community-events-api/core/errors"
	"community-events-api/core/utils"
)

// Middleware bundles the request middlewares shared by all modules
type Middleware struct {
	cfg *config.Config
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{cfg: cfg}
}

// AuthMiddleware validates the Authorization bearer token and stores the
// parsed claims in the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			claims, err := utils.ParseToken(tokenString, m.cfg.JWT.Secret)
			if err != nil {
				code := errors.ErrUnauthorized
				if stderrors.Is(err, jwt.ErrTokenExpired) {
					code = errors.ErrTokenExpired
				}
				return controller.NewErrorResponse(http.StatusUnauthorized, code, "Invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
