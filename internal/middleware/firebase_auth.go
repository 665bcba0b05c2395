package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/zyh422797297/juan-le-me/internal/models"
	"github.com/zyh422797297/juan-le-me/internal/repositories"
)

// FirebaseAuthMiddleware verifies Firebase ID tokens directly instead of a
// local JWT. The verified UID is resolved to the local user row so handlers
// see the same session claims either way.
func FirebaseAuthMiddleware(authClient *auth.Client, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			idToken := tokenParts[1]

			token, err := authClient.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("Invalid or expired ID token: %v", err))
			}

			user, err := userRepo.GetUserByFirebaseUID(c.Request().Context(), token.UID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not registered")
			}

			c.Set("user", &models.JwtCustomClaims{
				UserID:      user.ID,
				Email:       user.Email,
				FirebaseUID: user.FirebaseUID,
			})

			return next(c)
		}
	}
}
