package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/uptrace/bun"
)

type TradeRepository interface {
	Create(ctx context.Context, trade *models.TradeRequest) error
	GetByID(ctx context.Context, id int64) (*models.TradeRequest, error)
	// GetDetailed loads the trade together with its book, requester and owner.
	GetDetailed(ctx context.Context, id int64) (*models.TradeRequest, error)
	HasPending(ctx context.Context, requesterID, bookID int64) (bool, error)
	// Accept marks the book traded, cancels competing pending requests and accepts
	// the trade in a single serializable transaction.
	Accept(ctx context.Context, id int64) (cancelled int64, err error)
	// Transition moves a pending trade to status to and returns ErrStateChanged
	// when the trade is no longer pending.
	Transition(ctx context.Context, id int64, to models.TradeStatus) error
	ListForUser(ctx context.Context, userID int64, status models.TradeStatus) ([]*models.TradeRequest, error)
}

type tradeRepository struct {
	db *bun.DB
	tx *database.TxManager
}

func NewTradeRepository(db *bun.DB) TradeRepository {
	return &tradeRepository{db: db, tx: database.NewTxManager(db)}
}

func (r *tradeRepository) Create(ctx context.Context, trade *models.TradeRequest) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	trade.Status = models.TradePending
	trade.CreatedAt = now()
	trade.UpdatedAt = trade.CreatedAt

	_, err := r.db.NewInsert().
		Model(trade).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return handleError("create", "trade request", trade.BookID, err)
	}
	return nil
}

func (r *tradeRepository) GetByID(ctx context.Context, id int64) (*models.TradeRequest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	trade := new(models.TradeRequest)
	err := r.db.NewSelect().
		Model(trade).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, handleError("get", "trade request", id, err)
	}
	return trade, nil
}

func (r *tradeRepository) GetDetailed(ctx context.Context, id int64) (*models.TradeRequest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	trade := new(models.TradeRequest)
	err := r.withParties(r.db.NewSelect().Model(trade)).
		Where("tr.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, handleError("get_detailed", "trade request", id, err)
	}
	return trade, nil
}

func (r *tradeRepository) HasPending(ctx context.Context, requesterID, bookID int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	exists, err := r.db.NewSelect().
		Model((*models.TradeRequest)(nil)).
		Where("requester_id = ?", requesterID).
		Where("book_id = ?", bookID).
		Where("status = ?", models.TradePending).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check pending trade for book %d: %w", bookID, err)
	}
	return exists, nil
}

func (r *tradeRepository) Accept(ctx context.Context, id int64) (int64, error) {
	var cancelled int64
	err := r.tx.WithTransaction(ctx, database.Serializable(), func(ctx context.Context, tx bun.Tx) error {
		trade := new(models.TradeRequest)
		err := tx.NewSelect().
			Model(trade).
			Where("id = ?", id).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return handleError("accept", "trade request", id, err)
		}
		if trade.Status != models.TradePending {
			return fmt.Errorf("trade request %d is %s: %w", id, trade.Status, ErrStateChanged)
		}

		book := new(models.Book)
		err = tx.NewSelect().
			Model(book).
			Where("id = ?", trade.BookID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return handleError("accept", "book", trade.BookID, err)
		}
		if book.Status != models.BookAvailable {
			return fmt.Errorf("book %d is %q: %w", book.ID, book.Status, ErrBookUnavailable)
		}

		ts := now()
		if _, err = tx.NewUpdate().
			Model((*models.Book)(nil)).
			Set("status = ?", models.BookTraded).
			Set("updated_at = ?", ts).
			Where("id = ?", book.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to mark book %d traded: %w", book.ID, err)
		}

		res, err := tx.NewUpdate().
			Model((*models.TradeRequest)(nil)).
			Set("status = ?", models.TradeCancelled).
			Set("updated_at = ?", ts).
			Where("book_id = ?", trade.BookID).
			Where("status = ?", models.TradePending).
			Where("id <> ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to cancel competing requests for book %d: %w", book.ID, err)
		}
		cancelled, _ = res.RowsAffected()

		if _, err = tx.NewUpdate().
			Model((*models.TradeRequest)(nil)).
			Set("status = ?", models.TradeAccepted).
			Set("updated_at = ?", ts).
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to accept trade request %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		err = handleError("accept", "trade request", id, err)
		if !errors.Is(err, ErrStateChanged) && !errors.Is(err, ErrBookUnavailable) {
			slog.Warn("Trade accept rolled back",
				slog.String("type", "db"),
				slog.String("operation", "accept"),
				slog.Int64("trade_id", id),
				slog.Any("error", err))
		}
		return 0, err
	}
	return cancelled, nil
}

func (r *tradeRepository) Transition(ctx context.Context, id int64, to models.TradeStatus) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.TradeRequest)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", now()).
		Where("id = ?", id).
		Where("status = ?", models.TradePending).
		Exec(ctx)
	if err != nil {
		return handleError("transition", "trade request", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trade request %d: %w", id, ErrStateChanged)
	}
	return nil
}

func (r *tradeRepository) ListForUser(ctx context.Context, userID int64, status models.TradeStatus) ([]*models.TradeRequest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	trades := make([]*models.TradeRequest, 0)
	err := r.withParties(r.db.NewSelect().Model(&trades)).
		Where("tr.status = ?", status).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("tr.requester_id = ?", userID).WhereOr("tr.owner_id = ?", userID)
		}).
		Order("tr.created_at DESC", "tr.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s trades for %d: %w", status, userID, err)
	}
	return trades, nil
}

func (r *tradeRepository) withParties(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Book").
		Relation("Requester").
		Relation("Owner")
}
