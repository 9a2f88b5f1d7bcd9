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

var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a user and sets user.ID to the generated key.
// A second user with the same email fails with apperror.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	id, err := db.insert(ctx,
		`INSERT INTO users (email, hashed_password) VALUES (?, ?)`,
		user.Email,
		user.HashedPassword,
	)
	if err != nil {
		return fmt.Errorf("sqldb: creating user: %w", db.writeError(schema.Users, "user", err))
	}
	user.ID = id
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		db.q(`SELECT id, email, hashed_password FROM users WHERE id = ?`),
		id,
	).Scan(&u.ID, &u.Email, &u.HashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqldb: getting user %d: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail looks a user up through the unique email index.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		db.q(`SELECT id, email, hashed_password FROM users WHERE email = ?`),
		email,
	).Scan(&u.ID, &u.Email, &u.HashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: "user not found with email " + email,
				Field:   "email",
			}
		}
		return nil, fmt.Errorf("sqldb: getting user by email: %w", err)
	}
	return &u, nil
}
