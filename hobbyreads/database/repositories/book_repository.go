package repositories

import (
	"context"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/uptrace/bun"
)

// BookRepository exposes the catalog lookups the trade flow needs. Status writes
// happen only inside the trade accept transaction.
type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
}

type bookRepository struct {
	db *bun.DB
}

func NewBookRepository(db *bun.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	book := new(models.Book)
	err := r.db.NewSelect().
		Model(book).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, handleError("get", "book", id, err)
	}
	return book, nil
}
