package repositories

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"
	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/uptrace/bun"
)

type HobbyRepository interface {
	GetAll(ctx context.Context) ([]*models.Hobby, error)
	NamesForUser(ctx context.Context, userID int64) ([]string, error)
	NamesForUsers(ctx context.Context, userIDs []int64) (map[int64][]string, error)
	// EnsureIDs resolves hobby names to ids, creating the missing ones through db.
	EnsureIDs(ctx context.Context, db bun.IDB, names []string) ([]int64, error)
	// ReplaceForUser swaps the user's hobby set for ids through db.
	ReplaceForUser(ctx context.Context, db bun.IDB, userID int64, ids []int64) error
}

type hobbyRepository struct {
	db *bun.DB
	// name -> id for hobbies known to be committed; hobbies are never renamed or deleted.
	ids *lru.Cache
}

func NewHobbyRepository(db *bun.DB) HobbyRepository {
	cache, _ := lru.New(config.HobbyCacheSize)
	return &hobbyRepository{db: db, ids: cache}
}

func (r *hobbyRepository) GetAll(ctx context.Context) ([]*models.Hobby, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var hobbies []*models.Hobby
	err := r.db.NewSelect().
		Model(&hobbies).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hobbies: %w", err)
	}
	for _, h := range hobbies {
		r.ids.Add(h.Name, h.ID)
	}
	return hobbies, nil
}

func (r *hobbyRepository) NamesForUser(ctx context.Context, userID int64) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	names := make([]string, 0)
	err := r.db.NewSelect().
		TableExpr("user_hobbies AS uh").
		ColumnExpr("h.name").
		Join("JOIN hobbies AS h ON h.id = uh.hobby_id").
		Where("uh.user_id = ?", userID).
		OrderExpr("h.name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("failed to get hobbies for user %d: %w", userID, err)
	}
	return names, nil
}

func (r *hobbyRepository) NamesForUsers(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []models.UserHobbyName
	err := r.db.NewSelect().
		TableExpr("user_hobbies AS uh").
		ColumnExpr("uh.user_id, h.name").
		Join("JOIN hobbies AS h ON h.id = uh.hobby_id").
		Where("uh.user_id IN (?)", bun.In(userIDs)).
		OrderExpr("uh.user_id ASC, h.name ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get hobbies for %d users: %w", len(userIDs), err)
	}

	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], row.Name)
	}
	return result, nil
}

func (r *hobbyRepository) EnsureIDs(ctx context.Context, db bun.IDB, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	var missing []string
	for _, name := range names {
		if id, ok := r.ids.Get(name); ok {
			ids = append(ids, id.(int64))
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return ids, nil
	}

	var existing []*models.Hobby
	err := db.NewSelect().
		Model(&existing).
		Where("name IN (?)", bun.In(missing)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up hobbies: %w", err)
	}

	found := make(map[string]bool, len(existing))
	for _, h := range existing {
		found[h.Name] = true
		ids = append(ids, h.ID)
		r.ids.Add(h.Name, h.ID)
	}

	var created []*models.Hobby
	for _, name := range missing {
		if !found[name] {
			created = append(created, &models.Hobby{Name: name, CreatedAt: now(), UpdatedAt: now()})
		}
	}
	if len(created) == 0 {
		return ids, nil
	}

	// Rows created here are not cached until a later read sees them committed.
	_, err = db.NewInsert().
		Model(&created).
		On("CONFLICT (name) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create hobbies: %w", err)
	}
	for _, h := range created {
		ids = append(ids, h.ID)
	}

	slog.Debug("Hobbies created",
		slog.String("type", "db"),
		slog.String("operation", "ensure_hobbies"),
		slog.Int("count", len(created)))
	return ids, nil
}

func (r *hobbyRepository) ReplaceForUser(ctx context.Context, db bun.IDB, userID int64, ids []int64) error {
	_, err := db.NewDelete().
		Model((*models.UserHobby)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear hobbies for user %d: %w", userID, err)
	}
	if len(ids) == 0 {
		return nil
	}

	links := make([]*models.UserHobby, 0, len(ids))
	for _, id := range ids {
		links = append(links, &models.UserHobby{UserID: userID, HobbyID: id, CreatedAt: now()})
	}
	if _, err = db.NewInsert().Model(&links).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("failed to link hobbies for user %d: %w", userID, err)
	}
	return nil
}
