package feed

import (
	"context"

	"github.com/zyh422797297/juan-le-me/internal/models"
)

// PostSource defines the post reads the engine needs from the remote store.
type PostSource interface {
	// GetRecentPosts retrieves the most recent posts by creation time descending.
	GetRecentPosts(ctx context.Context, limit int64) ([]models.Post, error)

	// GetPostsByUserID retrieves posts authored by the given Firebase UID,
	// newest first. skip/limit of 0 mean no offset / no cap.
	GetPostsByUserID(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error)
}

// ReactionStore defines reaction reads and writes.
//
// Implementations must return ErrNotFound from GetReaction when no row
// matches, and must reject duplicate (post, user, kind) inserts via a
// store-side uniqueness constraint rather than relying on the caller.
type ReactionStore interface {
	CreateReaction(ctx context.Context, reaction *models.Reaction) error
	DeleteReaction(ctx context.Context, id uint) error
	GetReaction(ctx context.Context, postID string, userID uint, kind string) (*models.Reaction, error)

	// GetReactionsByPostIDs retrieves every reaction targeting a post in the
	// id set, in a single query.
	GetReactionsByPostIDs(ctx context.Context, postIDs []string) ([]models.Reaction, error)

	// GetRecentReactionsByPostIDs retrieves the newest reactions on the id
	// set, newest first, skipping excludeUserID's own rows when non-zero.
	GetRecentReactionsByPostIDs(ctx context.Context, postIDs []string, excludeUserID uint, limit int) ([]models.Reaction, error)
}

// CommentSource defines the comment reads the engine needs.
type CommentSource interface {
	GetCommentsByPostIDs(ctx context.Context, postIDs []string) ([]models.Comment, error)
	GetRecentCommentsByPostIDs(ctx context.Context, postIDs []string, excludeUserID uint, limit int) ([]models.Comment, error)
}

// UserSource resolves actor identities for notifications.
type UserSource interface {
	GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
}
