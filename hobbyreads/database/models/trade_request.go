package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeAccepted  TradeStatus = "accepted"
	TradeRejected  TradeStatus = "rejected"
	TradeCancelled TradeStatus = "cancelled"
)

// Valid reports whether s is one of the four trade states.
func (s TradeStatus) Valid() bool {
	switch s {
	case TradePending, TradeAccepted, TradeRejected, TradeCancelled:
		return true
	}
	return false
}

type TradeRequest struct {
	bun.BaseModel `bun:"table:trade_requests,alias:tr"`

	ID          int64       `bun:"id,pk,autoincrement"`
	RequesterID int64       `bun:"requester_id,notnull"`
	BookID      int64       `bun:"book_id,notnull"`
	OwnerID     int64       `bun:"owner_id,notnull"`
	Status      TradeStatus `bun:"status,notnull,default:'pending'"`
	Message     *string     `bun:"message"`
	CreatedAt   time.Time   `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time   `bun:"updated_at,notnull,default:current_timestamp"`

	Book      *Book `bun:"rel:belongs-to,join:book_id=id"`
	Requester *User `bun:"rel:belongs-to,join:requester_id=id"`
	Owner     *User `bun:"rel:belongs-to,join:owner_id=id"`
}
