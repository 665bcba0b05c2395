package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zyh422797297/juan-le-me/internal/feed"
	"github.com/zyh422797297/juan-le-me/internal/models"
	"github.com/zyh422797297/juan-le-me/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes. Comments cannot be
// edited or deleted.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
}

// EnrichedComment is a comment with its author's compact identity
type EnrichedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	sess := sessionFromContext(c)
	if !sess.LoggedIn() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
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

	user, err := h.userRepository.GetUserByID(c.Request().Context(), sess.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  user.ID,
		Content: req.Content,
	}

	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, EnrichedComment{Comment: *comment, Author: user.ToCompact()})
}

// GetCommentsByPostID retrieves all comments for a specific post, oldest
// first, with author identities resolved in one batch query.
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comments, err := h.commentRepository.GetCommentsByPostID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authorIDs := make([]uint, 0, len(comments))
	seen := make(map[uint]bool)
	for _, cm := range comments {
		if !seen[cm.UserID] {
			seen[cm.UserID] = true
			authorIDs = append(authorIDs, cm.UserID)
		}
	}

	authors := make(map[uint]models.UserCompact, len(authorIDs))
	users, err := h.userRepository.GetUsersByIDs(c.Request().Context(), authorIDs)
	if err == nil {
		for i := range users {
			authors[users[i].ID] = users[i].ToCompact()
		}
	}

	enriched := make([]EnrichedComment, len(comments))
	for i, cm := range comments {
		enriched[i] = EnrichedComment{Comment: cm, Author: authors[cm.UserID]}
	}

	return c.JSON(http.StatusOK, enriched)
}
