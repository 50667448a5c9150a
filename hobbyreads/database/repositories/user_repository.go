package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/uptrace/bun"
)

// ProfileUpdate carries the editable profile fields. A nil Bio leaves the stored bio
// untouched; an empty Hobbies slice leaves the hobby set untouched.
type ProfileUpdate struct {
	Name    string
	Bio     *string
	Hobbies []string
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	// ListUnconnected returns users that share no connection row with userID, in id order.
	ListUnconnected(ctx context.Context, userID int64, limit int) ([]*models.User, error)
	// ListSharingHobbies returns users sharing at least one hobby with userID, most shared first.
	ListSharingHobbies(ctx context.Context, userID int64, limit int) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) error
}

type userRepository struct {
	db      *bun.DB
	tx      *database.TxManager
	hobbies HobbyRepository
}

func NewUserRepository(db *bun.DB, hobbies HobbyRepository) UserRepository {
	return &userRepository{
		db:      db,
		tx:      database.NewTxManager(db),
		hobbies: hobbies,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, handleError("get", "user", id, err)
	}
	return user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	users := make([]*models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.NewSelect().
		Model(&users).
		Where("id IN (?)", bun.In(ids)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

func (r *userRepository) ListUnconnected(ctx context.Context, userID int64, limit int) ([]*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	users := make([]*models.User, 0, limit)
	err := r.db.NewSelect().
		Model(&users).
		Where("u.id <> ?", userID).
		Where(`NOT EXISTS (
			SELECT 1 FROM connections AS c
			WHERE (c.user_id = ? AND c.connected_user_id = u.id)
			   OR (c.user_id = u.id AND c.connected_user_id = ?)
		)`, userID, userID).
		Order("u.id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unconnected users for %d: %w", userID, err)
	}
	return users, nil
}

func (r *userRepository) ListSharingHobbies(ctx context.Context, userID int64, limit int) ([]*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	shared := r.db.NewSelect().
		TableExpr("user_hobbies AS other").
		ColumnExpr("other.user_id").
		ColumnExpr("COUNT(*) AS shared").
		Join("JOIN user_hobbies AS mine ON mine.hobby_id = other.hobby_id AND mine.user_id = ?", userID).
		Where("other.user_id <> ?", userID).
		GroupExpr("other.user_id")

	users := make([]*models.User, 0, limit)
	err := r.db.NewSelect().
		Model(&users).
		Join("JOIN (?) AS s ON s.user_id = u.id", shared).
		OrderExpr("s.shared DESC, u.id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users sharing hobbies with %d: %w", userID, err)
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) error {
	err := r.tx.WithTransaction(ctx, database.ReadCommitted(), func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("name = ?", update.Name).
			Set("updated_at = ?", now()).
			Where("id = ?", userID)
		if update.Bio != nil {
			q = q.Set("bio = ?", *update.Bio)
		}
		res, err := q.Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update user %d: %w", userID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &NotFoundError{Entity: "user", ID: userID}
		}

		if len(update.Hobbies) == 0 {
			return nil
		}
		ids, err := r.hobbies.EnsureIDs(ctx, tx, update.Hobbies)
		if err != nil {
			return err
		}
		return r.hobbies.ReplaceForUser(ctx, tx, userID, ids)
	})
	if err != nil {
		return handleError("update_profile", "user", userID, err)
	}

	slog.Info("Profile updated",
		slog.String("type", "db"),
		slog.Int64("user_id", userID),
		slog.Int("hobbies", len(update.Hobbies)))
	return nil
}
