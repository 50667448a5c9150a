package trades

import "time"

// Direction tags. Single-trade responses use the lower-case form and listings the
// upper-case form, which is what existing clients expect.
const (
	TypeOutgoing = "outgoing"
	TypeIncoming = "incoming"
	ListOutgoing = "OUTGOING"
	ListIncoming = "INCOMING"
)

type BookSummary struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	CoverImageURL *string `json:"coverImageUrl"`
}

type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Trade is a trade request joined with its book and both parties.
type Trade struct {
	ID          int64       `json:"id"`
	RequesterID int64       `json:"requesterId"`
	BookID      int64       `json:"bookId"`
	OwnerID     int64       `json:"ownerId"`
	Status      string      `json:"status"`
	Message     *string     `json:"message"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Book        BookSummary `json:"book"`
	Requester   UserSummary `json:"requester"`
	Owner       UserSummary `json:"owner"`
	Type        string      `json:"type"`
}
