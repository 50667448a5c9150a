package connections

import "time"

const StatusSuggested = "suggested"

// Connection is the view returned to the acting user: the connection row joined
// with the other party's profile and a match score computed at read time.
type Connection struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"userId"`
	ConnectedUserID int64      `json:"connectedUserId"`
	Status          string     `json:"status"`
	Name            string     `json:"name"`
	Username        string     `json:"username"`
	Bio             string     `json:"bio"`
	Hobbies         []string   `json:"hobbies"`
	MatchPercentage int        `json:"matchPercentage"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
