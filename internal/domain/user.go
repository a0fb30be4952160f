package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account that can create and join meetings.
type User struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email,omitempty"`
	ProfilePic string    `json:"profile_pic,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewUser(fullName string, email string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		FullName:  fullName,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
