package connections

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/repositories"
	"github.com/hobbyreads/hobbyreads/internal/domain/apperr"
	"github.com/hobbyreads/hobbyreads/internal/domain/matching"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	Request(ctx context.Context, requesterID, targetID int64) (*Connection, error)
	Accept(ctx context.Context, connectionID, actingUserID int64) (*Connection, error)
	Reject(ctx context.Context, connectionID, actingUserID int64) (*Connection, error)
	Delete(ctx context.Context, connectionID, actingUserID int64) error
	ListAccepted(ctx context.Context, userID int64) ([]Connection, error)
	ListPending(ctx context.Context, userID int64) ([]Connection, error)
	Suggest(ctx context.Context, userID int64) ([]Connection, error)
}

type service struct {
	repository Repository
	users      UserStore
	hobbies    HobbyStore
}

func NewService(repository Repository, users UserStore, hobbies HobbyStore) *service {
	return &service{
		repository: repository,
		users:      users,
		hobbies:    hobbies,
	}
}

func (s *service) Request(ctx context.Context, requesterID, targetID int64) (*Connection, error) {
	const op = "connections.Request"

	if requesterID == targetID {
		return nil, apperr.New(apperr.InvalidArgument, op, "you cannot connect with yourself")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, storeError(op, "user not found", err)
	}

	exists, err := s.repository.ExistsBetween(ctx, requesterID, targetID)
	if err != nil {
		return nil, storeError(op, "", err)
	}
	if exists {
		return nil, apperr.New(apperr.Conflict, op, "a connection with this user already exists")
	}

	conn := &models.Connection{UserID: requesterID, ConnectedUserID: targetID}
	if err = s.repository.Create(ctx, conn); err != nil {
		if repositories.IsConflict(err) {
			return nil, apperr.Wrap(apperr.Conflict, op, "a connection with this user already exists", err)
		}
		return nil, storeError(op, "user not found", err)
	}

	mine, theirs, err := s.pairHobbies(ctx, requesterID, targetID)
	if err != nil {
		return nil, storeError(op, "", err)
	}

	slog.Info("Connection requested",
		slog.Int64("connection_id", conn.ID),
		slog.Int64("requester_id", requesterID),
		slog.Int64("target_id", targetID))

	view := newView(conn, target, theirs, matching.Percentage(mine, theirs))
	return &view, nil
}

func (s *service) Accept(ctx context.Context, connectionID, actingUserID int64) (*Connection, error) {
	const op = "connections.Accept"

	conn, err := s.decide(ctx, op, connectionID, actingUserID, models.ConnectionAccepted)
	if err != nil {
		return nil, err
	}

	requester, err := s.users.GetByID(ctx, conn.UserID)
	if err != nil {
		return nil, storeError(op, "user not found", err)
	}
	mine, theirs, err := s.pairHobbies(ctx, actingUserID, conn.UserID)
	if err != nil {
		return nil, storeError(op, "", err)
	}

	view := newView(conn, requester, theirs, matching.Percentage(mine, theirs))
	return &view, nil
}

func (s *service) Reject(ctx context.Context, connectionID, actingUserID int64) (*Connection, error) {
	const op = "connections.Reject"

	conn, err := s.decide(ctx, op, connectionID, actingUserID, models.ConnectionRejected)
	if err != nil {
		return nil, err
	}

	requester, err := s.users.GetByID(ctx, conn.UserID)
	if err != nil {
		return nil, storeError(op, "user not found", err)
	}
	hobbies, err := s.hobbies.NamesForUser(ctx, conn.UserID)
	if err != nil {
		return nil, storeError(op, "", err)
	}

	// rejected connections never report a match
	view := newView(conn, requester, hobbies, 0)
	return &view, nil
}

// decide applies a recipient decision to a pending connection.
func (s *service) decide(ctx context.Context, op string, connectionID, actingUserID int64, to models.ConnectionStatus) (*models.Connection, error) {
	conn, err := s.repository.GetByID(ctx, connectionID)
	if err != nil {
		return nil, storeError(op, "connection not found", err)
	}
	if conn.ConnectedUserID != actingUserID {
		return nil, apperr.New(apperr.Forbidden, op, "only the recipient can respond to a connection request")
	}
	if conn.Status != models.ConnectionPending {
		return nil, apperr.New(apperr.Conflict, op, "this connection request has already been processed")
	}

	if err = s.repository.UpdateStatus(ctx, conn, to); err != nil {
		if errors.Is(err, repositories.ErrStateChanged) {
			return nil, apperr.Wrap(apperr.Conflict, op, "this connection request has already been processed", err)
		}
		return nil, storeError(op, "connection not found", err)
	}

	slog.Info("Connection "+string(to),
		slog.Int64("connection_id", conn.ID),
		slog.Int64("requester_id", conn.UserID),
		slog.Int64("recipient_id", conn.ConnectedUserID))
	return conn, nil
}

func (s *service) Delete(ctx context.Context, connectionID, actingUserID int64) error {
	const op = "connections.Delete"

	conn, err := s.repository.GetByID(ctx, connectionID)
	if err != nil {
		return storeError(op, "connection not found", err)
	}
	if !conn.Involves(actingUserID) {
		return apperr.New(apperr.Forbidden, op, "you can only remove your own connections")
	}

	if err = s.repository.Delete(ctx, connectionID); err != nil {
		return storeError(op, "connection not found", err)
	}

	slog.Info("Connection deleted",
		slog.Int64("connection_id", connectionID),
		slog.Int64("acting_user_id", actingUserID),
		slog.String("status", string(conn.Status)))
	return nil
}

func (s *service) ListAccepted(ctx context.Context, userID int64) ([]Connection, error) {
	const op = "connections.ListAccepted"

	var (
		conns []*models.Connection
		mine  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		conns, err = s.repository.ListAccepted(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		mine, err = s.hobbies.NamesForUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeError(op, "", err)
	}

	others := make([]int64, 0, len(conns))
	for _, c := range conns {
		others = append(others, c.OtherParty(userID))
	}
	hobbies, err := s.hobbies.NamesForUsers(ctx, others)
	if err != nil {
		return nil, storeError(op, "", err)
	}

	views := make([]Connection, 0, len(conns))
	for _, c := range conns {
		otherID := c.OtherParty(userID)
		other := c.Recipient
		if c.UserID != userID {
			other = c.Requester
		}
		theirs := hobbies[otherID]

		view := newView(c, other, theirs, matching.Percentage(mine, theirs))
		view.UserID = userID
		view.ConnectedUserID = otherID
		views = append(views, view)
	}
	return views, nil
}

func (s *service) ListPending(ctx context.Context, userID int64) ([]Connection, error) {
	const op = "connections.ListPending"

	var (
		conns []*models.Connection
		mine  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		conns, err = s.repository.ListPendingFor(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		mine, err = s.hobbies.NamesForUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeError(op, "", err)
	}

	requesters := make([]int64, 0, len(conns))
	for _, c := range conns {
		requesters = append(requesters, c.UserID)
	}
	hobbies, err := s.hobbies.NamesForUsers(ctx, requesters)
	if err != nil {
		return nil, storeError(op, "", err)
	}

	views := make([]Connection, 0, len(conns))
	for _, c := range conns {
		theirs := hobbies[c.UserID]
		views = append(views, newView(c, c.Requester, theirs, matching.Percentage(mine, theirs)))
	}
	return views, nil
}

func (s *service) Suggest(ctx context.Context, userID int64) ([]Connection, error) {
	const op = "connections.Suggest"

	var (
		users []*models.User
		mine  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.ListUnconnected(gctx, userID, config.SuggestedConnectionsLimit)
		return err
	})
	g.Go(func() (err error) {
		mine, err = s.hobbies.NamesForUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
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

	views := make([]Connection, 0, len(users))
	for _, u := range users {
		theirs := nonNil(hobbies[u.ID])
		views = append(views, Connection{
			UserID:          u.ID,
			Status:          StatusSuggested,
			Name:            u.Name,
			Username:        u.Username,
			Bio:             u.Bio,
			Hobbies:         theirs,
			MatchPercentage: matching.Percentage(mine, theirs),
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].MatchPercentage > views[j].MatchPercentage
	})
	return views, nil
}

func (s *service) pairHobbies(ctx context.Context, mineID, theirsID int64) (mine, theirs []string, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		mine, err = s.hobbies.NamesForUser(gctx, mineID)
		return err
	})
	g.Go(func() (err error) {
		theirs, err = s.hobbies.NamesForUser(gctx, theirsID)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}
	return mine, theirs, nil
}

func newView(c *models.Connection, other *models.User, hobbies []string, match int) Connection {
	view := Connection{
		ID:              c.ID,
		UserID:          c.UserID,
		ConnectedUserID: c.ConnectedUserID,
		Status:          string(c.Status),
		Hobbies:         nonNil(hobbies),
		MatchPercentage: match,
		CreatedAt:       timePtr(c.CreatedAt),
		UpdatedAt:       timePtr(c.UpdatedAt),
	}
	if other != nil {
		view.Name = other.Name
		view.Username = other.Username
		view.Bio = other.Bio
	}
	return view
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
