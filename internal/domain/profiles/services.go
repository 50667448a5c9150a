package profiles

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/repositories"
	"github.com/hobbyreads/hobbyreads/internal/domain/apperr"
	"github.com/hobbyreads/hobbyreads/internal/domain/matching"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (*Profile, error)
	SuggestUsers(ctx context.Context, userID int64) ([]SuggestedUser, error)
	ListHobbies(ctx context.Context) ([]Hobby, error)
	SearchHobbies(ctx context.Context, query string) ([]Hobby, error)
}

type service struct {
	repository Repository
	hobbies    HobbyStore
	pictures   ProfileURLs
	matcher    HobbyMatcher
}

func NewService(repository Repository, hobbies HobbyStore, pictures ProfileURLs, matcher HobbyMatcher) *service {
	return &service{
		repository: repository,
		hobbies:    hobbies,
		pictures:   pictures,
		matcher:    matcher,
	}
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	const op = "profiles.GetProfile"

	var (
		user    *models.User
		hobbies []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.repository.GetByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		hobbies, err = s.hobbies.NamesForUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeError(op, "user not found", err)
	}

	return &Profile{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Name:           user.Name,
		Bio:            user.Bio,
		ProfilePicture: s.pictureURL(ctx, user),
		Hobbies:        nonNil(hobbies),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (*Profile, error) {
	const op = "profiles.UpdateProfile"

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.New(apperr.InvalidArgument, op, "name is required")
	}
	if utf8.RuneCountInString(name) > config.MaxNameLength {
		return nil, apperr.New(apperr.InvalidArgument, op, "name is too long")
	}
	if input.Bio != nil && utf8.RuneCountInString(*input.Bio) > config.MaxBioLength {
		return nil, apperr.New(apperr.InvalidArgument, op, "bio is too long")
	}

	hobbies, err := NormalizeHobbies(input.Hobbies)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, op, err.Error(), err)
	}

	err = s.repository.UpdateProfile(ctx, userID, repositories.ProfileUpdate{
		Name:    name,
		Bio:     input.Bio,
		Hobbies: hobbies,
	})
	if err != nil {
		return nil, storeError(op, "user not found", err)
	}

	return s.GetProfile(ctx, userID)
}

func (s *service) SuggestUsers(ctx context.Context, userID int64) ([]SuggestedUser, error) {
	const op = "profiles.SuggestUsers"

	mine, err := s.hobbies.NamesForUser(ctx, userID)
	if err != nil {
		return nil, storeError(op, "", err)
	}
	if len(mine) == 0 {
		return []SuggestedUser{}, nil
	}

	users, err := s.repository.ListSharingHobbies(ctx, userID, config.SuggestedUsersLimit)
	if err != nil {
		return nil, storeError(op, "", err)
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	hobbies, err := s.hobbies.NamesForUsers(ctx, ids)
	if err != nil {
		return nil, storeError(op, "", err)
	}

	suggestions := make([]SuggestedUser, 0, len(users))
	for _, u := range users {
		theirs := nonNil(hobbies[u.ID])
		suggestions = append(suggestions, SuggestedUser{
			ID:              u.ID,
			Username:        u.Username,
			Name:            u.Name,
			Bio:             u.Bio,
			ProfilePicture:  s.pictureURL(ctx, u),
			Hobbies:         theirs,
			SharedHobbies:   matching.Shared(mine, theirs),
			MatchPercentage: matching.Percentage(mine, theirs),
		})
	}
	return suggestions, nil
}

func (s *service) ListHobbies(ctx context.Context) ([]Hobby, error) {
	hobbies, err := s.hobbies.GetAll(ctx)
	if err != nil {
		return nil, storeError("profiles.ListHobbies", "", err)
	}
	return toHobbies(hobbies), nil
}

func (s *service) SearchHobbies(ctx context.Context, query string) ([]Hobby, error) {
	hobbies, err := s.hobbies.GetAll(ctx)
	if err != nil {
		return nil, storeError("profiles.SearchHobbies", "", err)
	}
	return toHobbies(s.matcher.Search(hobbies, query)), nil
}

func (s *service) pictureURL(ctx context.Context, user *models.User) *string {
	if user.ProfilePicture == "" || s.pictures == nil {
		return nil
	}
	url, err := s.pictures.ProfileURL(ctx, user.ProfilePicture)
	if err != nil {
		slog.Warn("Failed to resolve profile picture URL",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err))
		return nil
	}
	if url == "" {
		return nil
	}
	return &url
}

func toHobbies(hobbies []*models.Hobby) []Hobby {
	out := make([]Hobby, 0, len(hobbies))
	for _, h := range hobbies {
		out = append(out, Hobby{ID: h.ID, Name: h.Name})
	}
	return out
}

func storeError(op, notFound string, err error) error {
	if notFound != "" && repositories.IsNotFound(err) {
		return apperr.Wrap(apperr.NotFound, op, notFound, err)
	}
	return apperr.Wrap(apperr.Internal, op, "", err)
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
