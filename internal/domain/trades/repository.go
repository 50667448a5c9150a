package trades

import (
	"context"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	Create(ctx context.Context, trade *models.TradeRequest) error
	GetByID(ctx context.Context, id int64) (*models.TradeRequest, error)
	GetDetailed(ctx context.Context, id int64) (*models.TradeRequest, error)
	HasPending(ctx context.Context, requesterID, bookID int64) (bool, error)
	Accept(ctx context.Context, id int64) (int64, error)
	Transition(ctx context.Context, id int64, to models.TradeStatus) error
	ListForUser(ctx context.Context, userID int64, status models.TradeStatus) ([]*models.TradeRequest, error)
}

type BookStore interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
}

type CoverURLs interface {
	CoverURL(ctx context.Context, key string) (string, error)
}
