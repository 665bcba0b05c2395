package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/zyh422797297/juan-le-me/internal/feed"
	"github.com/zyh422797297/juan-le-me/internal/models"
)

// sessionFromContext builds the viewer session from the auth middleware's
// claims. Anonymous requests yield the zero session.
func sessionFromContext(c echo.Context) feed.Session {
	if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
		return feed.Session{UserID: claims.UserID, FirebaseUID: claims.FirebaseUID}
	}
	return feed.Session{}
}
