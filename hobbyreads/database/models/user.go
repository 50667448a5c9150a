package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is owned by the identity store; this service only reads profile fields
// and replaces hobby associations.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             int64     `bun:"id,pk,autoincrement"`
	Username       string    `bun:"username,notnull,unique"`
	Email          string    `bun:"email,notnull,unique"`
	Password       string    `bun:"password,notnull"`
	Name           string    `bun:"name"`
	Bio            string    `bun:"bio,nullzero"`
	ProfilePicture string    `bun:"profile_picture,nullzero"`
	IsAdmin        bool      `bun:"is_admin,notnull,default:false"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
