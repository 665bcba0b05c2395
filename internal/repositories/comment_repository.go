package repositories

import (
	"context"

	"github.com/zyh422797297/juan-le-me/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	GetCommentsByPostIDs(ctx context.Context, postIDs []string) ([]models.Comment, error)
	GetRecentCommentsByPostIDs(ctx context.Context, postIDs []string, excludeUserID uint, limit int) ([]models.Comment, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentsByPostID retrieves all comments for a specific post, oldest first
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// GetCommentsByPostIDs retrieves all comments whose post is in the given id set (one query)
func (r *PostgresCommentRepository) GetCommentsByPostIDs(ctx context.Context, postIDs []string) ([]models.Comment, error) {
	var comments []models.Comment
	if len(postIDs) == 0 {
		return comments, nil
	}
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetRecentCommentsByPostIDs retrieves the most recent comments on the given
// post id set, newest first. excludeUserID filters out that user's own
// comments when non-zero.
func (r *PostgresCommentRepository) GetRecentCommentsByPostIDs(ctx context.Context, postIDs []string, excludeUserID uint, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	if len(postIDs) == 0 {
		return comments, nil
	}
	q := r.db.WithContext(ctx).Where("post_id IN ?", postIDs)
	if excludeUserID != 0 {
		q = q.Where("user_id <> ?", excludeUserID)
	}
	if err := q.Order("created_at DESC").Limit(limit).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
