package models

import "time"

// Reaction kinds. A user may hold at most one reaction row per
// (post, user, kind) triple but may hold different kinds simultaneously
// on the same post (a story can be both hugged and liked).
const (
	ReactionLike = "like"
	ReactionHug  = "hug"
	ReactionSlap = "slap"
)

// ReactionKinds is the closed set of valid reaction kinds.
var ReactionKinds = []string{ReactionLike, ReactionHug, ReactionSlap}

// IsValidReactionKind reports whether kind belongs to the closed set.
func IsValidReactionKind(kind string) bool {
	for _, k := range ReactionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Reaction represents a typed reaction on a post
type Reaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_kind"` // ID of the reacted post (MongoDB ObjectID as string)
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_kind"` // ID of the user who reacted
	Kind      string    `json:"kind" gorm:"size:10;uniqueIndex:idx_post_user_kind"`  // like, hug, slap
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// ToggleReactionRequest defines the request body for toggling a reaction
type ToggleReactionRequest struct {
	Kind string `json:"kind" validate:"required,oneof=like hug slap"`
}
