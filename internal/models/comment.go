package models

import "time"

// Comment represents a comment on a post. Comments cannot be edited or
// deleted once submitted.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index"` // ID of the post the comment belongs to (MongoDB ObjectID as string)
	UserID    uint      `json:"user_id" gorm:"index"` // ID of the user who made the comment
	Content   string    `json:"content" validate:"required,min=1,max=500"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
