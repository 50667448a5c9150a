package trades

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/repositories"
	"github.com/hobbyreads/hobbyreads/internal/domain/apperr"
	"github.com/hobbyreads/hobbyreads/internal/domain/trades/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type mocks struct {
	repo   *mock.MockRepository
	books  *mock.MockBookStore
	covers *mock.MockCoverURLs
}

func newTestService(t *testing.T) (*service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		repo:   mock.NewMockRepository(ctrl),
		books:  mock.NewMockBookStore(ctrl),
		covers: mock.NewMockCoverURLs(ctrl),
	}
	return NewService(m.repo, m.books, m.covers), m
}

var (
	created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	owner   = &models.User{ID: 9, Username: "owen", Name: "Owen"}
	reader  = &models.User{ID: 5, Username: "rita", Name: "Rita"}
	novel   = &models.Book{ID: 10, Title: "Dune", Author: "Frank Herbert", OwnerID: 9, Status: models.BookAvailable, CoverImage: "dune.jpg"}
)

func strPtr(s string) *string { return &s }

func detailed(id int64, status models.TradeStatus) *models.TradeRequest {
	return &models.TradeRequest{
		ID:          id,
		RequesterID: reader.ID,
		BookID:      novel.ID,
		OwnerID:     owner.ID,
		Status:      status,
		Message:     strPtr("trade?"),
		CreatedAt:   created,
		UpdatedAt:   created,
		Book:        novel,
		Requester:   reader,
		Owner:       owner,
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("book not for trade", func(t *testing.T) {
		s, m := newTestService(t)
		m.books.EXPECT().GetByID(gomock.Any(), int64(10)).
			Return(&models.Book{ID: 10, OwnerID: 9, Status: models.BookNotForTrade}, nil)

		_, err := s.Create(ctx, 5, 10, strPtr("trade?"))
		require.True(t, apperr.Is(err, apperr.InvalidState))
	})

	t.Run("traded book", func(t *testing.T) {
		s, m := newTestService(t)
		m.books.EXPECT().GetByID(gomock.Any(), int64(10)).
			Return(&models.Book{ID: 10, OwnerID: 9, Status: models.BookTraded}, nil)

		_, err := s.Create(ctx, 5, 10, nil)
		require.True(t, apperr.Is(err, apperr.InvalidState))
	})

	t.Run("unknown book", func(t *testing.T) {
		s, m := newTestService(t)
		m.books.EXPECT().GetByID(gomock.Any(), int64(10)).
			Return(nil, &repositories.NotFoundError{Entity: "book", ID: int64(10)})

		_, err := s.Create(ctx, 5, 10, nil)
		require.True(t, apperr.Is(err, apperr.NotFound))
	})

	t.Run("own book", func(t *testing.T) {
		s, m := newTestService(t)
		m.books.EXPECT().GetByID(gomock.Any(), int64(10)).Return(novel, nil)

		_, err := s.Create(ctx, 9, 10, nil)
		require.True(t, apperr.Is(err, apperr.InvalidArgument))
	})

	t.Run("duplicate pending request", func(t *testing.T) {
		s, m := newTestService(t)
		m.books.EXPECT().GetByID(gomock.Any(), int64(10)).Return(novel, nil)
		m.repo.EXPECT().HasPending(gomock.Any(), int64(5), int64(10)).Return(true, nil)

		_, err := s.Create(ctx, 5, 10, nil)
		require.True(t, apperr.Is(err, apperr.Conflict))
	})

	t.Run("message too long", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Create(ctx, 5, 10, strPtr(strings.Repeat("x", 1001)))
		require.True(t, apperr.Is(err, apperr.InvalidArgument))
	})

	t.Run("success", func(t *testing.T) {
		s, m := newTestService(t)
		m.books.EXPECT().GetByID(gomock.Any(), int64(10)).Return(novel, nil)
		m.repo.EXPECT().HasPending(gomock.Any(), int64(5), int64(10)).Return(false, nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr *models.TradeRequest) error {
				require.Equal(t, int64(9), tr.OwnerID)
				require.Equal(t, "trade?", *tr.Message)
				tr.ID = 100
				return nil
			})
		m.repo.EXPECT().GetDetailed(gomock.Any(), int64(100)).Return(detailed(100, models.TradePending), nil)
		m.covers.EXPECT().CoverURL(gomock.Any(), "dune.jpg").Return("https://cdn.example/dune.jpg", nil)

		got, err := s.Create(ctx, 5, 10, strPtr("  trade?  "))
		require.NoError(t, err)
		require.Equal(t, int64(100), got.ID)
		require.Equal(t, "pending", got.Status)
		require.Equal(t, TypeOutgoing, got.Type)
		require.Equal(t, "Dune", got.Book.Title)
		require.Equal(t, "https://cdn.example/dune.jpg", *got.Book.CoverImageURL)
		require.Equal(t, "rita", got.Requester.Username)
		require.Equal(t, "Owen", got.Owner.Name)
	})
}

func TestUpdateStatusAuthority(t *testing.T) {
	pending := &models.TradeRequest{ID: 1, RequesterID: 5, OwnerID: 9, BookID: 10, Status: models.TradePending}

	tests := []struct {
		name   string
		actor  int64
		status models.TradeStatus
	}{
		{name: "stranger accepts", actor: 3, status: models.TradeAccepted},
		{name: "stranger cancels", actor: 3, status: models.TradeCancelled},
		{name: "requester accepts", actor: 5, status: models.TradeAccepted},
		{name: "requester rejects", actor: 5, status: models.TradeRejected},
		{name: "owner cancels", actor: 9, status: models.TradeCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestService(t)
			m.repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(pending, nil)

			_, err := s.UpdateStatus(context.Background(), 1, tt.actor, tt.status)
			require.True(t, apperr.Is(err, apperr.Forbidden), "got %v", err)
		})
	}
}

func TestUpdateStatusGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid target status", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.UpdateStatus(ctx, 1, 9, models.TradePending)
		require.True(t, apperr.Is(err, apperr.InvalidArgument))
	})

	t.Run("unknown trade", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(1)).
			Return(nil, &repositories.NotFoundError{Entity: "trade request", ID: int64(1)})

		_, err := s.UpdateStatus(ctx, 1, 9, models.TradeAccepted)
		require.True(t, apperr.Is(err, apperr.NotFound))
	})

	for _, from := range []models.TradeStatus{models.TradeAccepted, models.TradeRejected, models.TradeCancelled} {
		t.Run(fmt.Sprintf("from %s", from), func(t *testing.T) {
			s, m := newTestService(t)
			m.repo.EXPECT().GetByID(gomock.Any(), int64(1)).
				Return(&models.TradeRequest{ID: 1, RequesterID: 5, OwnerID: 9, Status: from}, nil)

			_, err := s.UpdateStatus(ctx, 1, 9, models.TradeAccepted)
			require.True(t, apperr.Is(err, apperr.Conflict))
		})
	}
}

func TestUpdateStatusAccept(t *testing.T) {
	ctx := context.Background()
	pending := func() *models.TradeRequest {
		return &models.TradeRequest{ID: 1, RequesterID: 5, OwnerID: 9, BookID: 10, Status: models.TradePending}
	}

	t.Run("success", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(pending(), nil)
		m.repo.EXPECT().Accept(gomock.Any(), int64(1)).Return(int64(2), nil)
		m.repo.EXPECT().GetDetailed(gomock.Any(), int64(1)).Return(detailed(1, models.TradeAccepted), nil)
		m.covers.EXPECT().CoverURL(gomock.Any(), "dune.jpg").Return("", errors.New("signer down"))

		got, err := s.UpdateStatus(ctx, 1, 9, models.TradeAccepted)
		require.NoError(t, err)
		require.Equal(t, "accepted", got.Status)
		require.Equal(t, TypeIncoming, got.Type)
		require.Nil(t, got.Book.CoverImageURL)
	})

	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{name: "book no longer available", err: repositories.ErrBookUnavailable, want: apperr.InvalidState},
		{name: "request cancelled by a competing accept", err: repositories.ErrStateChanged, want: apperr.Conflict},
		{name: "serialization failure", err: fmt.Errorf("accept: %w", repositories.ErrSerialization), want: apperr.Conflict},
		{name: "store failure", err: errors.New("connection reset"), want: apperr.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestService(t)
			m.repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(pending(), nil)
			m.repo.EXPECT().Accept(gomock.Any(), int64(1)).Return(int64(0), tt.err)

			_, err := s.UpdateStatus(ctx, 1, 9, models.TradeAccepted)
			require.Equal(t, tt.want, apperr.KindOf(err))
		})
	}
}

func TestUpdateStatusRejectAndCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner rejects", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(1)).
			Return(&models.TradeRequest{ID: 1, RequesterID: 5, OwnerID: 9, Status: models.TradePending}, nil)
		m.repo.EXPECT().Transition(gomock.Any(), int64(1), models.TradeRejected).Return(nil)
		m.repo.EXPECT().GetDetailed(gomock.Any(), int64(1)).Return(detailed(1, models.TradeRejected), nil)
		m.covers.EXPECT().CoverURL(gomock.Any(), "dune.jpg").Return("/uploads/books/dune.jpg", nil)

		got, err := s.UpdateStatus(ctx, 1, 9, models.TradeRejected)
		require.NoError(t, err)
		require.Equal(t, TypeIncoming, got.Type)
		require.Equal(t, "rejected", got.Status)
	})

	t.Run("requester cancels", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(1)).
			Return(&models.TradeRequest{ID: 1, RequesterID: 5, OwnerID: 9, Status: models.TradePending}, nil)
		m.repo.EXPECT().Transition(gomock.Any(), int64(1), models.TradeCancelled).Return(nil)
		m.repo.EXPECT().GetDetailed(gomock.Any(), int64(1)).Return(detailed(1, models.TradeCancelled), nil)
		m.covers.EXPECT().CoverURL(gomock.Any(), "dune.jpg").Return("/uploads/books/dune.jpg", nil)

		got, err := s.UpdateStatus(ctx, 1, 5, models.TradeCancelled)
		require.NoError(t, err)
		require.Equal(t, TypeOutgoing, got.Type)
	})

	t.Run("lost race", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().GetByID(gomock.Any(), int64(1)).
			Return(&models.TradeRequest{ID: 1, RequesterID: 5, OwnerID: 9, Status: models.TradePending}, nil)
		m.repo.EXPECT().Transition(gomock.Any(), int64(1), models.TradeCancelled).
			Return(fmt.Errorf("trade request 1: %w", repositories.ErrStateChanged))

		_, err := s.UpdateStatus(ctx, 1, 5, models.TradeCancelled)
		require.True(t, apperr.Is(err, apperr.Conflict))
	})
}

func TestListPending(t *testing.T) {
	s, m := newTestService(t)
	incoming := detailed(1, models.TradePending)
	outgoing := detailed(2, models.TradePending)
	outgoing.RequesterID, outgoing.OwnerID = 9, 4
	outgoing.Book = &models.Book{ID: 11, Title: "Emma", OwnerID: 4}

	m.repo.EXPECT().ListForUser(gomock.Any(), int64(9), models.TradePending).
		Return([]*models.TradeRequest{incoming, outgoing}, nil)
	m.covers.EXPECT().CoverURL(gomock.Any(), "dune.jpg").Return("/uploads/books/dune.jpg", nil)

	got, err := s.ListPending(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, ListIncoming, got[0].Type)
	require.Equal(t, ListOutgoing, got[1].Type)
	require.Nil(t, got[1].Book.CoverImageURL)
}

func TestListAccepted(t *testing.T) {
	t.Run("other user's trades", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.ListAccepted(context.Background(), 5, 9)
		require.True(t, apperr.Is(err, apperr.Forbidden))
	})

	t.Run("own trades", func(t *testing.T) {
		s, m := newTestService(t)
		m.repo.EXPECT().ListForUser(gomock.Any(), int64(5), models.TradeAccepted).
			Return([]*models.TradeRequest{detailed(1, models.TradeAccepted)}, nil)
		m.covers.EXPECT().CoverURL(gomock.Any(), "dune.jpg").Return("/uploads/books/dune.jpg", nil)

		got, err := s.ListAccepted(context.Background(), 5, 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, ListOutgoing, got[0].Type)
	})
}
