package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zyh422797297/juan-le-me/internal/feed"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	feedService *feed.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(feedService *feed.Service) *NotificationHandler {
	return &NotificationHandler{feedService: feedService}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
}

// GetNotifications returns the newest activity on the viewer's posts,
// aggregated from comments and reactions.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	sess := sessionFromContext(c)
	if !sess.LoggedIn() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifications, err := h.feedService.LoadNotifications(c.Request().Context(), sess)
	if err != nil {
		var fetchErr *feed.FetchError
		if errors.As(err, &fetchErr) {
			return echo.NewHTTPError(http.StatusBadGateway, "Notifications are temporarily unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"notifications": notifications},
	})
}
