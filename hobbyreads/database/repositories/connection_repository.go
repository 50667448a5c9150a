package repositories

import (
	"context"
	"fmt"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/uptrace/bun"
)

type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id int64) (*models.Connection, error)
	// ExistsBetween checks both directions of the pair.
	ExistsBetween(ctx context.Context, a, b int64) (bool, error)
	// UpdateStatus moves conn from its current status to to, refreshing conn on
	// success. It returns ErrStateChanged when the stored row has moved on.
	UpdateStatus(ctx context.Context, conn *models.Connection, to models.ConnectionStatus) error
	Delete(ctx context.Context, id int64) error
	ListAccepted(ctx context.Context, userID int64) ([]*models.Connection, error)
	ListPendingFor(ctx context.Context, userID int64) ([]*models.Connection, error)
}

type connectionRepository struct {
	db *bun.DB
}

func NewConnectionRepository(db *bun.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	conn.Status = models.ConnectionPending
	conn.CreatedAt = now()
	conn.UpdatedAt = conn.CreatedAt

	_, err := r.db.NewInsert().
		Model(conn).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return handleError("create", "connection", fmt.Sprintf("%d-%d", conn.UserID, conn.ConnectedUserID), err)
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id int64) (*models.Connection, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	conn := new(models.Connection)
	err := r.db.NewSelect().
		Model(conn).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, handleError("get", "connection", id, err)
	}
	return conn, nil
}

func (r *connectionRepository) ExistsBetween(ctx context.Context, a, b int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	exists, err := r.db.NewSelect().
		Model((*models.Connection)(nil)).
		Where("(user_id = ? AND connected_user_id = ?) OR (user_id = ? AND connected_user_id = ?)", a, b, b, a).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check connection between %d and %d: %w", a, b, err)
	}
	return exists, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, conn *models.Connection, to models.ConnectionStatus) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	ts := now()
	res, err := r.db.NewUpdate().
		Model((*models.Connection)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", ts).
		Where("id = ?", conn.ID).
		Where("status = ?", conn.Status).
		Exec(ctx)
	if err != nil {
		return handleError("update_status", "connection", conn.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("connection %d: %w", conn.ID, ErrStateChanged)
	}

	conn.Status = to
	conn.UpdatedAt = ts
	return nil
}

func (r *connectionRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Connection)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return handleError("delete", "connection", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Entity: "connection", ID: id}
	}
	return nil
}

func (r *connectionRepository) ListAccepted(ctx context.Context, userID int64) ([]*models.Connection, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	conns := make([]*models.Connection, 0)
	err := r.db.NewSelect().
		Model(&conns).
		Relation("Requester").
		Relation("Recipient").
		Where("c.status = ?", models.ConnectionAccepted).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("c.user_id = ?", userID).WhereOr("c.connected_user_id = ?", userID)
		}).
		Order("c.updated_at DESC", "c.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted connections for %d: %w", userID, err)
	}
	return conns, nil
}

func (r *connectionRepository) ListPendingFor(ctx context.Context, userID int64) ([]*models.Connection, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	conns := make([]*models.Connection, 0)
	err := r.db.NewSelect().
		Model(&conns).
		Relation("Requester").
		Where("c.connected_user_id = ?", userID).
		Where("c.status = ?", models.ConnectionPending).
		Order("c.created_at DESC", "c.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending connections for %d: %w", userID, err)
	}
	return conns, nil
}
