package models

import (
	"time"

	"github.com/hobbyreads/hobbyreads/internal/domain/profiles"
)

// UserSession is the authenticated caller, decoded from the bearer token.
type UserSession struct {
	UserID    int64     `json:"id"`
	IsAdmin   bool      `json:"isAdmin"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type TradeCreateRequest struct {
	BookID  int64   `json:"bookId"`
	Message *string `json:"message"`
}

type TradeStatusRequest struct {
	Status string `json:"status"`
}

type ProfileUpdateRequest struct {
	Name    string   `json:"name"`
	Bio     *string  `json:"bio"`
	Hobbies []string `json:"hobbies"`
}

func (r *ProfileUpdateRequest) ToInput() profiles.ProfileInput {
	return profiles.ProfileInput{
		Name:    r.Name,
		Bio:     r.Bio,
		Hobbies: r.Hobbies,
	}
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}
