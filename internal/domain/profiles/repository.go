package profiles

import (
	"context"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/repositories"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update repositories.ProfileUpdate) error
	ListSharingHobbies(ctx context.Context, userID int64, limit int) ([]*models.User, error)
}

type HobbyStore interface {
	GetAll(ctx context.Context) ([]*models.Hobby, error)
	NamesForUser(ctx context.Context, userID int64) ([]string, error)
	NamesForUsers(ctx context.Context, userIDs []int64) (map[int64][]string, error)
}

type ProfileURLs interface {
	ProfileURL(ctx context.Context, key string) (string, error)
}

type HobbyMatcher interface {
	Search(hobbies []*models.Hobby, query string) []*models.Hobby
}
