package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// Connection is a directed request from UserID to ConnectedUserID. At most one row
// exists per unordered pair.
type Connection struct {
	bun.BaseModel `bun:"table:connections,alias:c"`

	ID              int64            `bun:"id,pk,autoincrement"`
	UserID          int64            `bun:"user_id,notnull"`
	ConnectedUserID int64            `bun:"connected_user_id,notnull"`
	Status          ConnectionStatus `bun:"status,notnull,default:'pending'"`
	CreatedAt       time.Time        `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time        `bun:"updated_at,notnull,default:current_timestamp"`

	Requester *User `bun:"rel:belongs-to,join:user_id=id"`
	Recipient *User `bun:"rel:belongs-to,join:connected_user_id=id"`
}

// Involves reports whether userID is either party.
func (c *Connection) Involves(userID int64) bool {
	return c.UserID == userID || c.ConnectedUserID == userID
}

// OtherParty returns the id of the party that is not userID.
func (c *Connection) OtherParty(userID int64) int64 {
	if c.UserID == userID {
		return c.ConnectedUserID
	}
	return c.UserID
}
