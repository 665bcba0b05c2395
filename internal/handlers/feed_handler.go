package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zyh422797297/juan-le-me/internal/feed"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService *feed.Service
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *feed.Service) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the heat-ranked feed for the current viewer
func (h *FeedHandler) GetFeed(c echo.Context) error {
	sess := sessionFromContext(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	posts, err := h.feedService.LoadFeed(c.Request().Context(), sess, limit)
	if err != nil {
		var fetchErr *feed.FetchError
		if errors.As(err, &fetchErr) {
			return echo.NewHTTPError(http.StatusBadGateway, "Feed is temporarily unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
	})
}
