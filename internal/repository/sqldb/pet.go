package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/pet-adoption/internal/apperror"
	"github.com/sakif/pet-adoption/internal/model"
	"github.com/sakif/pet-adoption/internal/repository"
	"github.com/sakif/pet-adoption/internal/schema"
)

var _ repository.PetRepository = (*DB)(nil)

func (db *DB) CreatePet(ctx context.Context, pet *model.Pet) error {
	id, err := db.insert(ctx,
		`INSERT INTO pets (name, owner_id) VALUES (?, ?)`,
		pet.Name,
		pet.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqldb: creating pet: %w", db.writeError(schema.Pets, "pet", err))
	}
	pet.ID = id
	return nil
}

func (db *DB) GetPetByID(ctx context.Context, id int64) (*model.Pet, error) {
	var p model.Pet
	err := db.conn.QueryRowContext(ctx,
		db.q(`SELECT id, name, owner_id FROM pets WHERE id = ?`),
		id,
	).Scan(&p.ID, &p.Name, &p.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("pet", id)
		}
		return nil, fmt.Errorf("sqldb: getting pet %d: %w", id, err)
	}
	return &p, nil
}

// ListPets returns pets ordered by id. NamePrefix is matched with LIKE, so
// case sensitivity follows the engine (SQLite folds ASCII case, Postgres
// does not).
func (db *DB) ListPets(ctx context.Context, filter repository.PetFilter) ([]model.Pet, error) {
	limit, offset := clampList(filter.ListOptions)

	var (
		where []string
		args  []any
	)
	if filter.OwnerID != nil {
		where = append(where, "owner_id = ?")
		args = append(args, *filter.OwnerID)
	}
	if filter.NamePrefix != "" {
		where = append(where, `name LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(filter.NamePrefix)+"%")
	}

	query := `SELECT id, name, owner_id FROM pets`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, db.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing pets: %w", err)
	}
	defer rows.Close()

	pets := make([]model.Pet, 0, limit)
	for rows.Next() {
		var p model.Pet
		if err := rows.Scan(&p.ID, &p.Name, &p.OwnerID); err != nil {
			return nil, fmt.Errorf("sqldb: scanning pet row: %w", err)
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating pets: %w", err)
	}
	return pets, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// UpdatePet writes name and owner_id of an existing pet.
func (db *DB) UpdatePet(ctx context.Context, pet *model.Pet) error {
	res, err := db.conn.ExecContext(ctx,
		db.q(`UPDATE pets SET name = ?, owner_id = ? WHERE id = ?`),
		pet.Name,
		pet.OwnerID,
		pet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqldb: updating pet %d: %w", pet.ID, db.writeError(schema.Pets, "pet", err))
	}
	return affected(res, "pet", pet.ID)
}

// DeletePet removes a pet. With foreign keys enforced, a pet that still has
// adoptions cannot be deleted and the call fails with apperror.ErrConflict.
func (db *DB) DeletePet(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, db.q(`DELETE FROM pets WHERE id = ?`), id)
	if err != nil {
		if kind, _ := db.classify(err); kind == ForeignKeyViolation {
			return apperror.Conflict("pet", fmt.Sprintf("pet %d is still referenced by adoptions", id))
		}
		return fmt.Errorf("sqldb: deleting pet %d: %w", id, err)
	}
	return affected(res, "pet", id)
}
