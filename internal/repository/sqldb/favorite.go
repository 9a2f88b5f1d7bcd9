package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/pet-adoption/internal/apperror"
	"github.com/sakif/pet-adoption/internal/model"
	"github.com/sakif/pet-adoption/internal/repository"
	"github.com/sakif/pet-adoption/internal/schema"
)

var _ repository.FavoriteRepository = (*DB)(nil)

func (db *DB) CreateFavorite(ctx context.Context, fav *model.Favorite) error {
	id, err := db.insert(ctx,
		`INSERT INTO favorites (name, user_id) VALUES (?, ?)`,
		fav.Name,
		fav.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqldb: creating favorite: %w", db.writeError(schema.Favorites, "favorite", err))
	}
	fav.ID = id
	return nil
}

func (db *DB) GetFavoriteByID(ctx context.Context, id int64) (*model.Favorite, error) {
	var f model.Favorite
	err := db.conn.QueryRowContext(ctx,
		db.q(`SELECT id, name, user_id FROM favorites WHERE id = ?`),
		id,
	).Scan(&f.ID, &f.Name, &f.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("favorite", id)
		}
		return nil, fmt.Errorf("sqldb: getting favorite %d: %w", id, err)
	}
	return &f, nil
}

func (db *DB) ListFavoritesByUser(ctx context.Context, userID int64) ([]model.Favorite, error) {
	rows, err := db.conn.QueryContext(ctx,
		db.q(`SELECT id, name, user_id FROM favorites WHERE user_id = ? ORDER BY id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing favorites: %w", err)
	}
	defer rows.Close()

	favs := []model.Favorite{}
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(&f.ID, &f.Name, &f.UserID); err != nil {
			return nil, fmt.Errorf("sqldb: scanning favorite row: %w", err)
		}
		favs = append(favs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating favorites: %w", err)
	}
	return favs, nil
}

func (db *DB) DeleteFavorite(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, db.q(`DELETE FROM favorites WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("sqldb: deleting favorite %d: %w", id, err)
	}
	return affected(res, "favorite", id)
}
