package connections

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/repositories"
	"github.com/hobbyreads/hobbyreads/internal/domain/apperr"
	"github.com/hobbyreads/hobbyreads/internal/domain/connections/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type mocks struct {
	repo    *mock.MockRepository
	users   *mock.MockUserStore
	hobbies *mock.MockHobbyStore
}

func newTestService(t *testing.T) (*service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		repo:    mock.NewMockRepository(ctrl),
		users:   mock.NewMockUserStore(ctrl),
		hobbies: mock.NewMockHobbyStore(ctrl),
	}
	return NewService(m.repo, m.users, m.hobbies), m
}

var (
	created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	alice   = &models.User{ID: 1, Username: "alice", Name: "Alice", Bio: "reads a lot"}
	bob     = &models.User{ID: 2, Username: "bob", Name: "Bob"}
	carol   = &models.User{ID: 3, Username: "carol", Name: "Carol"}
)

func setStatus(_ context.Context, c *models.Connection, to models.ConnectionStatus) error {
	c.Status = to
	c.UpdatedAt = created.Add(time.Hour)
	return nil
}

func TestRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("self connection", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Request(ctx, 4, 4)
		require.True(t, apperr.Is(err, apperr.InvalidArgument))
	})

	t.Run("unknown target", func(t *testing.T) {
		s, m := newTestService(t)
		m.users.EXPECT().GetByID(gomock.Any(), int64(99)).
			Return(nil, &repositories.NotFoundError{Entity: "user", ID: int64(99)})

		_, err := s.Request(ctx, 1, 99)
		require.True(t, apperr.Is(err, apperr.NotFound))
	})

	t.Run("existing pair in either direction", func(t *testing.T) {
		s, m := newTestService(t)
		m.users.EXPECT().GetByID(gomock.Any(), int64(2)).Return(bob, nil)
		m.repo.EXPECT().ExistsBetween(gomock.Any(), int64(1), int64(2)).Return(true, nil)

		_, err := s.Request(ctx, 1, 2)
		require.True(t, apperr.Is(err, apperr.Conflict))
	})

	t.Run("unique index wins a race", func(t *testing.T) {
		s, m := newTestService(t)
		m.users.EXPECT().GetByID(gomock.Any(), int64(2)).Return(bob, nil)
		m.repo.EXPECT().ExistsBetween(gomock.Any(), int64(1), int64(2)).Return(false, nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(&repositories.ConflictError{Entity: "connection", Constraint: "idx_connections_pair"})

		_, err := s.Request(ctx, 1, 2)
		require.True(t, apperr.Is(err, apperr.Conflict))
	})

	t.Run("success", func(t *testing.T) {
		s, m := newTestService(t)
		m.users.EXPECT().GetByID(gomock.Any(), int64(2)).Return(bob, nil)
		m.repo.EXPECT().ExistsBetween(gomock.Any(), int64(1), int64(2)).Return(false, nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *models.Connection) error {
				require.Equal(t, int64(1), c.UserID)
				require.Equal(t, int64(2), c.ConnectedUserID)
				c.ID = 10
				c.Status = models.ConnectionPending
				c.CreatedAt = created
				c.UpdatedAt = created
				return nil
			})
		m.hobbies.EXPECT().NamesForUser(gomock.Any(), int64(1)).Return([]string{"chess", "hiking"}, nil)
		m.hobbies.EXPECT().NamesForUser(gomock.Any(), int64(2)).Return([]string{"chess"}, nil)

		got, err := s.Request(ctx, 1, 2)
		require.NoError(t, err)
		require.Equal(t, int64(10), got.ID)
		require.Equal(t, "pending", got.Status)
		require.Equal(t, "Bob", got.Name)
		require.Equal(t, "bob", got.Username)
		require.Equal(t, []string{"chess"}, got.Hobbies)
		require.Equal(t, 50, got.MatchPercentage)
		require.Equal(t, created, *got.CreatedAt)
	})
}

func TestAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("only the recipient may accept", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(&models.Connection{ID: 7, UserID: 5, ConnectedUserID: 9, Status: models.ConnectionPending}, nil)

		_, err := s.Accept(ctx, 7, 3)
		require.True(t, apperr.Is(err, apperr.Forbidden))
	})

	t.Run("requester cannot accept own request", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(&models.Connection{ID: 7, UserID: 5, ConnectedUserID: 9, Status: models.ConnectionPending}, nil)

		_, err := s.Accept(ctx, 7, 5)
		require.True(t, apperr.Is(err, apperr.Forbidden))
	})

	t.Run("missing connection", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(nil, &repositories.NotFoundError{Entity: "connection", ID: int64(7)})

		_, err := s.Accept(ctx, 7, 9)
		require.True(t, apperr.Is(err, apperr.NotFound))
	})

	t.Run("already processed", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(&models.Connection{ID: 7, UserID: 5, ConnectedUserID: 9, Status: models.ConnectionRejected}, nil)

		_, err := s.Accept(ctx, 7, 9)
		require.True(t, apperr.Is(err, apperr.Conflict))
	})

	t.Run("concurrent decision", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(&models.Connection{ID: 7, UserID: 5, ConnectedUserID: 9, Status: models.ConnectionPending}, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), models.ConnectionAccepted).
			Return(repositories.ErrStateChanged)

		_, err := s.Accept(ctx, 7, 9)
		require.True(t, apperr.Is(err, apperr.Conflict))
	})

	t.Run("success scores against the requester", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(&models.Connection{ID: 7, UserID: 1, ConnectedUserID: 2, Status: models.ConnectionPending, CreatedAt: created}, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), models.ConnectionAccepted).DoAndReturn(setStatus)
		m.users.EXPECT().GetByID(gomock.Any(), int64(1)).Return(alice, nil)
		m.hobbies.EXPECT().NamesForUser(gomock.Any(), int64(2)).Return([]string{"chess", "poetry"}, nil)
		m.hobbies.EXPECT().NamesForUser(gomock.Any(), int64(1)).Return([]string{"chess", "poetry", "hiking"}, nil)

		got, err := s.Accept(ctx, 7, 2)
		require.NoError(t, err)
		require.Equal(t, "accepted", got.Status)
		require.Equal(t, "Alice", got.Name)
		require.Equal(t, "reads a lot", got.Bio)
		require.Equal(t, []string{"chess", "poetry", "hiking"}, got.Hobbies)
		require.Equal(t, 67, got.MatchPercentage)
		require.Equal(t, created.Add(time.Hour), *got.UpdatedAt)
	})
}

func TestReject(t *testing.T) {
	s, m := newTestService(t)
	m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
		Return(&models.Connection{ID: 7, UserID: 1, ConnectedUserID: 2, Status: models.ConnectionPending}, nil)
	m.repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), models.ConnectionRejected).DoAndReturn(setStatus)
	m.users.EXPECT().GetByID(gomock.Any(), int64(1)).Return(alice, nil)
	m.hobbies.EXPECT().NamesForUser(gomock.Any(), int64(1)).Return([]string{"chess"}, nil)

	got, err := s.Reject(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Equal(t, "rejected", got.Status)
	require.Equal(t, []string{"chess"}, got.Hobbies)
	require.Zero(t, got.MatchPercentage)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	for _, actor := range []int64{1, 2} {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(&models.Connection{ID: 7, UserID: 1, ConnectedUserID: 2, Status: models.ConnectionAccepted}, nil)
		m.repo.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil)

		require.NoError(t, s.Delete(ctx, 7, actor))
	}

	t.Run("stranger", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(&models.Connection{ID: 7, UserID: 1, ConnectedUserID: 2, Status: models.ConnectionPending}, nil)

		require.True(t, apperr.Is(s.Delete(ctx, 7, 3), apperr.Forbidden))
	})

	t.Run("already deleted", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(nil, &repositories.NotFoundError{Entity: "connection", ID: int64(7)})

		require.True(t, apperr.Is(s.Delete(ctx, 7, 1), apperr.NotFound))
	})

	t.Run("deleted between read and delete", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).
			Return(&models.Connection{ID: 7, UserID: 1, ConnectedUserID: 2}, nil)
		m.repo.EXPECT().Delete(gomock.Any(), int64(7)).
			Return(&repositories.NotFoundError{Entity: "connection", ID: int64(7)})

		require.True(t, apperr.Is(s.Delete(ctx, 7, 2), apperr.NotFound))
	})
}

func TestListAccepted(t *testing.T) {
	s, m := newTestService(t)
	m.repo.EXPECT().ListAccepted(gomock.Any(), int64(1)).Return([]*models.Connection{
		{ID: 7, UserID: 1, ConnectedUserID: 2, Status: models.ConnectionAccepted, Requester: alice, Recipient: bob},
		{ID: 8, UserID: 3, ConnectedUserID: 1, Status: models.ConnectionAccepted, Requester: carol, Recipient: alice},
	}, nil)
	m.hobbies.EXPECT().NamesForUser(gomock.Any(), int64(1)).Return([]string{"chess", "hiking"}, nil)
	m.hobbies.EXPECT().NamesForUsers(gomock.Any(), []int64{2, 3}).Return(map[int64][]string{
		2: {"chess", "hiking"},
		3: {"poetry"},
	}, nil)

	got, err := s.ListAccepted(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, int64(1), got[0].UserID)
	require.Equal(t, int64(2), got[0].ConnectedUserID)
	require.Equal(t, "Bob", got[0].Name)
	require.Equal(t, 100, got[0].MatchPercentage)

	require.Equal(t, int64(1), got[1].UserID)
	require.Equal(t, int64(3), got[1].ConnectedUserID)
	require.Equal(t, "Carol", got[1].Name)
	require.Equal(t, []string{"poetry"}, got[1].Hobbies)
	require.Zero(t, got[1].MatchPercentage)
}

func TestListPending(t *testing.T) {
	s, m := newTestService(t)
	m.repo.EXPECT().ListPendingFor(gomock.Any(), int64(2)).Return([]*models.Connection{
		{ID: 7, UserID: 1, ConnectedUserID: 2, Status: models.ConnectionPending, Requester: alice},
	}, nil)
	m.hobbies.EXPECT().NamesForUser(gomock.Any(), int64(2)).Return([]string{"chess"}, nil)
	m.hobbies.EXPECT().NamesForUsers(gomock.Any(), []int64{1}).Return(map[int64][]string{}, nil)

	got, err := s.ListPending(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Alice", got[0].Name)
	require.Equal(t, []string{}, got[0].Hobbies)
	require.Zero(t, got[0].MatchPercentage)
}

func TestSuggest(t *testing.T) {
	s, m := newTestService(t)
	dave := &models.User{ID: 4, Username: "dave", Name: "Dave"}
	m.users.EXPECT().ListUnconnected(gomock.Any(), int64(1), 20).Return([]*models.User{bob, carol, dave}, nil)
	m.hobbies.EXPECT().NamesForUser(gomock.Any(), int64(1)).Return([]string{"chess", "hiking"}, nil)
	m.hobbies.EXPECT().NamesForUsers(gomock.Any(), []int64{2, 3, 4}).Return(map[int64][]string{
		2: {"poetry"},
		3: {"chess", "hiking"},
		4: {"gardening"},
	}, nil)

	got, err := s.Suggest(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, int64(3), got[0].UserID)
	require.Equal(t, 100, got[0].MatchPercentage)
	// equal scores keep store order
	require.Equal(t, int64(2), got[1].UserID)
	require.Equal(t, int64(4), got[2].UserID)
	for _, c := range got {
		require.Equal(t, StatusSuggested, c.Status)
		require.Zero(t, c.ID)
		require.Zero(t, c.ConnectedUserID)
		require.Nil(t, c.CreatedAt)
	}
}

func TestStoreFailureIsInternal(t *testing.T) {
	s, m := newTestService(t)
	m.repo.EXPECT().ListPendingFor(gomock.Any(), int64(2)).Return(nil, errors.New("connection reset"))
	m.hobbies.EXPECT().NamesForUser(gomock.Any(), int64(2)).Return(nil, nil).AnyTimes()

	_, err := s.ListPending(context.Background(), 2)
	require.True(t, apperr.Is(err, apperr.Internal))
}
