package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Username    string `json:"username"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	AvatarURL   string `json:"avatar_url"`
	Age         int    `json:"age"`
	Password    string `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

// UserCompact is the projection of a user embedded in posts and notifications
type UserCompact struct {
	ID        uint   `json:"id" bson:"id"`
	Username  string `json:"username" bson:"username"`
	AvatarURL string `json:"avatar_url" bson:"avatar_url"`
}

// ToCompact returns the compact projection of the user
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

type CreateLocalUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Age      int    `json:"age" validate:"omitempty,min=0,max=150"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Username  string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Age       int    `json:"age,omitempty" validate:"min=0,max=150"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	FirebaseUID string `json:"firebase_uid,omitempty"`
	jwt.RegisteredClaims
}
