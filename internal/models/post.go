package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post categories a story can be filed under.
var PostCategories = []string{"Workplace", "Family", "Relationships", "School", "Life", "Other"}

// Post represents a vented story stored in MongoDB.
//
// Reaction and comment counters are NOT stored on the document; they are
// always recomputed from the PostgreSQL reaction/comment tables at read time.
// The compact author info is denormalized at create time so the feed can be
// assembled without an extra profile query.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"` // Firebase UID of the user who created the post
	Author    UserCompact        `json:"author" bson:"author"`
	Content   string             `json:"content" bson:"content"`
	Category  string             `json:"category" bson:"category"`
	ImageURLs []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string   `json:"content" validate:"required,min=1,max=2000"`
	Category  string   `json:"category" validate:"omitempty,oneof=Workplace Family Relationships School Life Other"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}
