package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zyh422797297/juan-le-me/internal/feed"
	"github.com/zyh422797297/juan-le-me/internal/models"
	"github.com/zyh422797297/juan-le-me/internal/repositories"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.GetPosts)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post. The author's compact identity is
// denormalized onto the document so feed loads need no profile query.
func (h *PostHandler) CreatePost(c echo.Context) error {
	sess := sessionFromContext(c)
	if !sess.LoggedIn() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), sess.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	category := req.Category
	if category == "" {
		category = "Workplace"
	}

	post := &models.Post{
		UserID:    sess.FirebaseUID,
		Author:    user.ToCompact(),
		Content:   req.Content,
		Category:  category,
		ImageURLs: req.ImageURLs,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves recent posts, optionally restricted to one author
func (h *PostHandler) GetPosts(c echo.Context) error {
	userID := c.QueryParam("user_id")
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var posts []models.Post
	var err error

	if userID != "" {
		posts, err = h.postRepository.GetPostsByUserID(c.Request().Context(), userID, skip, limit)
	} else {
		posts, err = h.postRepository.GetRecentPosts(c.Request().Context(), limit)
	}

	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// DeletePost deletes a post owned by the authenticated user
func (h *PostHandler) DeletePost(c echo.Context) error {
	sess := sessionFromContext(c)
	if !sess.LoggedIn() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("id")

	existingPost, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, feed.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if existingPost.UserID != sess.FirebaseUID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
