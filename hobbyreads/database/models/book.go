package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BookStatus string

const (
	BookAvailable   BookStatus = "Available for Trade"
	BookNotForTrade BookStatus = "Not for Trade"
	BookTraded      BookStatus = "Traded"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Title       string     `bun:"title,notnull"`
	Author      string     `bun:"author,notnull"`
	Description string     `bun:"description,nullzero"`
	CoverImage  string     `bun:"cover_image,nullzero"`
	OwnerID     int64      `bun:"owner_id,notnull"`
	Status      BookStatus `bun:"status,notnull,default:'Not for Trade'"`
	Genre       string     `bun:"genre,nullzero"`
	Condition   string     `bun:"book_condition,notnull,default:'Good'"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp"`

	Owner *User `bun:"rel:belongs-to,join:owner_id=id"`
}
