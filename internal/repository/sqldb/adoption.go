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

var _ repository.AdoptionRepository = (*DB)(nil)

// CreateAdoption inserts an adoption. The table has no uniqueness, so the
// same (pet, user) pair can be recorded any number of times; limiting that
// is a service-level policy.
func (db *DB) CreateAdoption(ctx context.Context, a *model.Adoption) error {
	id, err := db.insert(ctx,
		`INSERT INTO adoptions (pet_id, user_id) VALUES (?, ?)`,
		a.PetID,
		a.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqldb: creating adoption: %w", db.writeError(schema.Adoptions, "adoption", err))
	}
	a.ID = id
	return nil
}

func (db *DB) GetAdoptionByID(ctx context.Context, id int64) (*model.Adoption, error) {
	var a model.Adoption
	err := db.conn.QueryRowContext(ctx,
		db.q(`SELECT id, pet_id, user_id FROM adoptions WHERE id = ?`),
		id,
	).Scan(&a.ID, &a.PetID, &a.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("adoption", id)
		}
		return nil, fmt.Errorf("sqldb: getting adoption %d: %w", id, err)
	}
	return &a, nil
}

func (db *DB) ListAdoptionsByUser(ctx context.Context, userID int64) ([]model.Adoption, error) {
	return db.listAdoptions(ctx, "user_id", userID)
}

func (db *DB) ListAdoptionsByPet(ctx context.Context, petID int64) ([]model.Adoption, error) {
	return db.listAdoptions(ctx, "pet_id", petID)
}

// column is one of the two foreign keys, never user input.
func (db *DB) listAdoptions(ctx context.Context, column string, id int64) ([]model.Adoption, error) {
	rows, err := db.conn.QueryContext(ctx,
		db.q(`SELECT id, pet_id, user_id FROM adoptions WHERE `+column+` = ? ORDER BY id`),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing adoptions by %s: %w", column, err)
	}
	defer rows.Close()

	out := []model.Adoption{}
	for rows.Next() {
		var a model.Adoption
		if err := rows.Scan(&a.ID, &a.PetID, &a.UserID); err != nil {
			return nil, fmt.Errorf("sqldb: scanning adoption row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating adoptions: %w", err)
	}
	return out, nil
}
