package profiles

import "time"

type Profile struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	ProfilePicture *string   `json:"profilePicture"`
	Hobbies        []string  `json:"hobbies"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfileInput is an edit of the acting user's profile. A nil Bio keeps the stored
// bio and an empty Hobbies list keeps the stored hobbies.
type ProfileInput struct {
	Name    string   `json:"name"`
	Bio     *string  `json:"bio"`
	Hobbies []string `json:"hobbies"`
}

type SuggestedUser struct {
	ID              int64    `json:"id"`
	Username        string   `json:"username"`
	Name            string   `json:"name"`
	Bio             string   `json:"bio"`
	ProfilePicture  *string  `json:"profilePicture"`
	Hobbies         []string `json:"hobbies"`
	SharedHobbies   int      `json:"sharedHobbies"`
	MatchPercentage int      `json:"matchPercentage"`
}

type Hobby struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
