// Package service contains the business logic of the pet adoption API.
//
// THE THREE LAYERS:
//
//	Handler (HTTP)      → parses requests, writes responses
//	Service (business)  → validates, enforces ownership, orchestrates
//	Repository (data)   → reads/writes the database
//
// Services take repository interfaces, never a concrete store, so tests
// run against in-memory mocks and main.go decides between SQLite and
// Postgres. Services return apperror values; the handler layer turns those
// into status codes, which keeps this package free of HTTP.
package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sakif/pet-adoption/internal/apperror"
	"github.com/sakif/pet-adoption/internal/schema"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Name limits come from the schema so validation and the VARCHAR sizes
// cannot drift apart.
var (
	MaxPetNameLength      = schema.Pets.Size("name")
	MaxFavoriteNameLength = schema.Favorites.Size("name")
)

// cleanName trims name and checks it is present and at most max characters.
// VARCHAR(n) counts characters, so "é" is one, not two.
func cleanName(resource, name string, max int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ValidationFailed("name", resource+" name is required")
	}
	if utf8.RuneCountInString(name) > max {
		return "", apperror.ValidationFailed("name",
			fmt.Sprintf("%s name must be %d characters or less", resource, max))
	}
	return name, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// owns reports whether the nullable owner column points at userID.
func owns(owner *int64, userID int64) bool {
	return owner != nil && *owner == userID
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return apperror.ValidationFailed(field, field+" must be a positive integer")
	}
	return nil
}
