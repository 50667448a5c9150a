package connections

import (
	"context"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id int64) (*models.Connection, error)
	ExistsBetween(ctx context.Context, a, b int64) (bool, error)
	UpdateStatus(ctx context.Context, conn *models.Connection, to models.ConnectionStatus) error
	Delete(ctx context.Context, id int64) error
	ListAccepted(ctx context.Context, userID int64) ([]*models.Connection, error)
	ListPendingFor(ctx context.Context, userID int64) ([]*models.Connection, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListUnconnected(ctx context.Context, userID int64, limit int) ([]*models.User, error)
}

type HobbyStore interface {
	NamesForUser(ctx context.Context, userID int64) ([]string, error)
	NamesForUsers(ctx context.Context, userIDs []int64) (map[int64][]string, error)
}
