package trades

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/repositories"
	"github.com/hobbyreads/hobbyreads/internal/domain/apperr"
)

type Service interface {
	Create(ctx context.Context, requesterID, bookID int64, message *string) (*Trade, error)
	UpdateStatus(ctx context.Context, tradeID, actingUserID int64, status models.TradeStatus) (*Trade, error)
	ListPending(ctx context.Context, userID int64) ([]Trade, error)
	ListAccepted(ctx context.Context, actingUserID, subjectUserID int64) ([]Trade, error)
}

type service struct {
	repository Repository
	books      BookStore
	covers     CoverURLs
}

func NewService(repository Repository, books BookStore, covers CoverURLs) *service {
	return &service{
		repository: repository,
		books:      books,
		covers:     covers,
	}
}

func (s *service) Create(ctx context.Context, requesterID, bookID int64, message *string) (*Trade, error) {
	const op = "trades.Create"

	message, err := normalizeMessage(op, message)
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, storeError(op, "book not found", err)
	}
	if book.Status != models.BookAvailable {
		return nil, apperr.New(apperr.InvalidState, op, "this book is not available for trade")
	}
	if book.OwnerID == requesterID {
		return nil, apperr.New(apperr.InvalidArgument, op, "you cannot request to trade your own book")
	}

	pending, err := s.repository.HasPending(ctx, requesterID, bookID)
	if err != nil {
		return nil, storeError(op, "", err)
	}
	if pending {
		return nil, apperr.New(apperr.Conflict, op, "you already have a pending request for this book")
	}

	trade := &models.TradeRequest{
		RequesterID: requesterID,
		BookID:      bookID,
		OwnerID:     book.OwnerID,
		Message:     message,
	}
	if err = s.repository.Create(ctx, trade); err != nil {
		if repositories.IsConflict(err) {
			return nil, apperr.Wrap(apperr.Conflict, op, "you already have a pending request for this book", err)
		}
		return nil, storeError(op, "book not found", err)
	}

	slog.Info("Trade request created",
		slog.Int64("trade_id", trade.ID),
		slog.Int64("book_id", bookID),
		slog.Int64("requester_id", requesterID),
		slog.Int64("owner_id", book.OwnerID))

	detailed, err := s.repository.GetDetailed(ctx, trade.ID)
	if err != nil {
		return nil, storeError(op, "", err)
	}
	view := s.newView(ctx, detailed, TypeOutgoing)
	return &view, nil
}

func (s *service) UpdateStatus(ctx context.Context, tradeID, actingUserID int64, status models.TradeStatus) (*Trade, error) {
	const op = "trades.UpdateStatus"

	switch status {
	case models.TradeAccepted, models.TradeRejected, models.TradeCancelled:
	default:
		return nil, apperr.New(apperr.InvalidArgument, op, "status must be accepted, rejected or cancelled")
	}

	trade, err := s.repository.GetByID(ctx, tradeID)
	if err != nil {
		return nil, storeError(op, "trade request not found", err)
	}

	isOwner := trade.OwnerID == actingUserID
	isRequester := trade.RequesterID == actingUserID
	switch {
	case !isOwner && !isRequester:
		return nil, apperr.New(apperr.Forbidden, op, "you are not authorized to update this trade request")
	case status == models.TradeCancelled && !isRequester:
		return nil, apperr.New(apperr.Forbidden, op, "only the requester can cancel a trade request")
	case status != models.TradeCancelled && !isOwner:
		return nil, apperr.New(apperr.Forbidden, op, "only the book owner can accept or reject a trade request")
	}

	if trade.Status != models.TradePending {
		return nil, apperr.New(apperr.Conflict, op, "this trade request has already been processed")
	}

	if status == models.TradeAccepted {
		cancelled, err := s.repository.Accept(ctx, tradeID)
		if err != nil {
			return nil, acceptError(op, err)
		}
		slog.Info("Trade request accepted",
			slog.Int64("trade_id", tradeID),
			slog.Int64("book_id", trade.BookID),
			slog.Int64("cancelled_requests", cancelled))
	} else {
		if err = s.repository.Transition(ctx, tradeID, status); err != nil {
			if errors.Is(err, repositories.ErrStateChanged) {
				return nil, apperr.Wrap(apperr.Conflict, op, "this trade request has already been processed", err)
			}
			return nil, storeError(op, "trade request not found", err)
		}
		slog.Info("Trade request "+string(status),
			slog.Int64("trade_id", tradeID),
			slog.Int64("acting_user_id", actingUserID))
	}

	detailed, err := s.repository.GetDetailed(ctx, tradeID)
	if err != nil {
		return nil, storeError(op, "trade request not found", err)
	}

	direction := TypeOutgoing
	if isOwner {
		direction = TypeIncoming
	}
	view := s.newView(ctx, detailed, direction)
	return &view, nil
}

func (s *service) ListPending(ctx context.Context, userID int64) ([]Trade, error) {
	return s.list(ctx, "trades.ListPending", userID, models.TradePending)
}

// ListAccepted returns the accepted trades of subjectUserID. Only the subject may
// read them.
func (s *service) ListAccepted(ctx context.Context, actingUserID, subjectUserID int64) ([]Trade, error) {
	const op = "trades.ListAccepted"
	if actingUserID != subjectUserID {
		return nil, apperr.New(apperr.Forbidden, op, "you can only view your own accepted trades")
	}
	return s.list(ctx, op, subjectUserID, models.TradeAccepted)
}

func (s *service) list(ctx context.Context, op string, userID int64, status models.TradeStatus) ([]Trade, error) {
	trades, err := s.repository.ListForUser(ctx, userID, status)
	if err != nil {
		return nil, storeError(op, "", err)
	}

	views := make([]Trade, 0, len(trades))
	for _, t := range trades {
		direction := ListOutgoing
		if t.OwnerID == userID {
			direction = ListIncoming
		}
		views = append(views, s.newView(ctx, t, direction))
	}
	return views, nil
}

func (s *service) newView(ctx context.Context, t *models.TradeRequest, direction string) Trade {
	view := Trade{
		ID:          t.ID,
		RequesterID: t.RequesterID,
		BookID:      t.BookID,
		OwnerID:     t.OwnerID,
		Status:      string(t.Status),
		Message:     t.Message,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Book:        BookSummary{ID: t.BookID},
		Requester:   UserSummary{ID: t.RequesterID},
		Owner:       UserSummary{ID: t.OwnerID},
		Type:        direction,
	}
	if t.Book != nil {
		view.Book.Title = t.Book.Title
		view.Book.Author = t.Book.Author
		view.Book.CoverImageURL = s.coverURL(ctx, t.Book)
	}
	if t.Requester != nil {
		view.Requester.Username = t.Requester.Username
		view.Requester.Name = t.Requester.Name
	}
	if t.Owner != nil {
		view.Owner.Username = t.Owner.Username
		view.Owner.Name = t.Owner.Name
	}
	return view
}

func (s *service) coverURL(ctx context.Context, book *models.Book) *string {
	if book.CoverImage == "" || s.covers == nil {
		return nil
	}
	url, err := s.covers.CoverURL(ctx, book.CoverImage)
	if err != nil {
		slog.Warn("Failed to resolve cover image URL",
			slog.Int64("book_id", book.ID),
			slog.Any("error", err))
		return nil
	}
	if url == "" {
		return nil
	}
	return &url
}

func normalizeMessage(op string, message *string) (*string, error) {
	if message == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*message)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > config.MaxTradeMessageLength {
		return nil, apperr.New(apperr.InvalidArgument, op, "message is too long")
	}
	return &trimmed, nil
}

func acceptError(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrBookUnavailable):
		return apperr.Wrap(apperr.InvalidState, op, "this book is no longer available for trade", err)
	case errors.Is(err, repositories.ErrStateChanged), errors.Is(err, repositories.ErrSerialization):
		return apperr.Wrap(apperr.Conflict, op, "this trade request has already been processed", err)
	}
	return storeError(op, "trade request not found", err)
}

func storeError(op, notFound string, err error) error {
	if notFound != "" && repositories.IsNotFound(err) {
		return apperr.Wrap(apperr.NotFound, op, notFound, err)
	}
	return apperr.Wrap(apperr.Internal, op, "", err)
}
