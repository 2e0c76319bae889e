package middlewares

import (
	"net/http"

	gojwt "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/KrishSaraf/manj-book/app/server/jwt"
	"github.com/KrishSaraf/manj-book/app/server/models"
)

type errorMessage struct {
	Error string `json:"error"`
}

// TokenAuth validates the Authorization bearer token and leaves the parsed
// claims in the request context for Claims to pick up.
func TokenAuth(j *jwt.JWT) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: j.Key(),
		NewClaimsFunc: func(c echo.Context) gojwt.Claims {
			return new(jwt.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get("Authorization") == "" {
				return c.JSON(http.StatusUnauthorized, &errorMessage{Error: "Access denied. No token provided."})
			}
			return c.JSON(http.StatusUnauthorized, &errorMessage{Error: "Invalid or expired token."})
		},
	})
}

// RequireAdmin rejects valid tokens whose role is not admin. It must run
// after TokenAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, &errorMessage{Error: "Access denied. No token provided."})
			}
			if claims.Role != models.RoleAdmin {
				return c.JSON(http.StatusForbidden, &errorMessage{Error: "Access denied. Admin role required."})
			}

			return next(c)
		}
	}
}

// Claims returns the verified token claims, or nil outside TokenAuth routes.
func Claims(c echo.Context) *jwt.Claims {
	token, ok := c.Get("user").(*gojwt.Token)
	if !ok {
		return nil
	}

	claims, ok := token.Claims.(*jwt.Claims)
	if !ok {
		return nil
	}

	return claims
}
