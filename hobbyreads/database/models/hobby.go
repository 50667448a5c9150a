package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Hobby struct {
	bun.BaseModel `bun:"table:hobbies,alias:h"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull,unique"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

type UserHobby struct {
	bun.BaseModel `bun:"table:user_hobbies,alias:uh"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull,unique:user_hobby_unique"`
	HobbyID   int64     `bun:"hobby_id,notnull,unique:user_hobby_unique"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// UserHobbyName is a flattened user_hobbies x hobbies row.
type UserHobbyName struct {
	UserID int64  `bun:"user_id"`
	Name   string `bun:"name"`
}
