package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zyh422797297/juan-le-me/internal/feed"
	"github.com/zyh422797297/juan-le-me/internal/models"
	"github.com/zyh422797297/juan-le-me/internal/repositories"
)

// ReactionHandler handles HTTP requests related to reactions
type ReactionHandler struct {
	feedService        *feed.Service
	reactionRepository repositories.ReactionRepository
	postRepository     repositories.PostRepository
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(feedService *feed.Service, reactionRepo repositories.ReactionRepository, postRepo repositories.PostRepository) *ReactionHandler {
	return &ReactionHandler{
		feedService:        feedService,
		reactionRepository: reactionRepo,
		postRepository:     postRepo,
	}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/reactions", h.ToggleReaction)
	g.GET("/posts/:post_id/reactions/status", h.GetReactionStatus)
}

// ToggleReaction toggles the viewer's reaction of the given kind on a post:
// reacting when no reaction of that kind exists, removing it otherwise.
func (h *ReactionHandler) ToggleReaction(c echo.Context) error {
	sess := sessionFromContext(c)
	if !sess.LoggedIn() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.ToggleReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	view, err := h.feedService.ToggleReaction(c.Request().Context(), sess, postID, req.Kind)
	if err != nil {
		var mutErr *feed.MutationError
		if errors.As(err, &mutErr) {
			return echo.NewHTTPError(http.StatusBadGateway, "Reaction could not be saved, please retry")
		}
		var fetchErr *feed.FetchError
		if errors.As(err, &fetchErr) {
			return echo.NewHTTPError(http.StatusBadGateway, "Reaction could not be saved, please retry")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"post": view},
	})
}

// GetReactionStatus reports which reaction kinds the viewer holds on a post
func (h *ReactionHandler) GetReactionStatus(c echo.Context) error {
	sess := sessionFromContext(c)
	if !sess.LoggedIn() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	status := make(map[string]bool, len(models.ReactionKinds))
	for _, kind := range models.ReactionKinds {
		_, err := h.reactionRepository.GetReaction(c.Request().Context(), postID, sess.UserID, kind)
		switch {
		case err == nil:
			status[kind] = true
		case errors.Is(err, feed.ErrNotFound):
			status[kind] = false
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "reactions": status})
}
