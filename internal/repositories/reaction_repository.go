package repositories

import (
	"context"
	"errors"

	"github.com/zyh422797297/juan-le-me/internal/feed"
	"github.com/zyh422797297/juan-le-me/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	CreateReaction(ctx context.Context, reaction *models.Reaction) error
	DeleteReaction(ctx context.Context, id uint) error
	GetReaction(ctx context.Context, postID string, userID uint, kind string) (*models.Reaction, error)
	GetReactionsByPostIDs(ctx context.Context, postIDs []string) ([]models.Reaction, error)
	GetRecentReactionsByPostIDs(ctx context.Context, postIDs []string, excludeUserID uint, limit int) ([]models.Reaction, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// CreateReaction creates a new reaction in PostgreSQL. The unique index on
// (post_id, user_id, kind) rejects duplicate inserts from racing toggles.
func (r *PostgresReactionRepository) CreateReaction(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

// DeleteReaction deletes a reaction by ID from PostgreSQL
func (r *PostgresReactionRepository) DeleteReaction(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Reaction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return feed.ErrNotFound
	}
	return nil
}

// GetReaction retrieves the reaction of a given kind a user holds on a post
func (r *PostgresReactionRepository) GetReaction(ctx context.Context, postID string, userID uint, kind string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ? AND kind = ?", postID, userID, kind).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, feed.ErrNotFound
		}
		return nil, err
	}
	return &reaction, nil
}

// GetReactionsByPostIDs retrieves all reactions whose post is in the given id set (one query)
func (r *PostgresReactionRepository) GetReactionsByPostIDs(ctx context.Context, postIDs []string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if len(postIDs) == 0 {
		return reactions, nil
	}
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

// GetRecentReactionsByPostIDs retrieves the most recent reactions on the given
// post id set, newest first. excludeUserID filters out that user's own
// reactions when non-zero.
func (r *PostgresReactionRepository) GetRecentReactionsByPostIDs(ctx context.Context, postIDs []string, excludeUserID uint, limit int) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if len(postIDs) == 0 {
		return reactions, nil
	}
	q := r.db.WithContext(ctx).Where("post_id IN ?", postIDs)
	if excludeUserID != 0 {
		q = q.Where("user_id <> ?", excludeUserID)
	}
	if err := q.Order("created_at DESC").Limit(limit).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}
