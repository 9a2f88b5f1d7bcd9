// Package repository declares the storage contracts the services depend on.
//
// Implementations live in sub-packages (sqldb, with sqlite and postgres
// backends). Every implementation reports missing rows as
// apperror.ErrNotFound and constraint violations as apperror.ErrConflict or
// apperror.ErrReference.
package repository

import (
	"context"

	"github.com/sakif/pet-adoption/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// PetFilter narrows List. Zero values mean "no filter".
type PetFilter struct {
	OwnerID    *int64
	NamePrefix string
	ListOptions
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type PetRepository interface {
	CreatePet(ctx context.Context, pet *model.Pet) error
	GetPetByID(ctx context.Context, id int64) (*model.Pet, error)
	ListPets(ctx context.Context, filter PetFilter) ([]model.Pet, error)
	UpdatePet(ctx context.Context, pet *model.Pet) error
	DeletePet(ctx context.Context, id int64) error
}

type FavoriteRepository interface {
	CreateFavorite(ctx context.Context, fav *model.Favorite) error
	GetFavoriteByID(ctx context.Context, id int64) (*model.Favorite, error)
	ListFavoritesByUser(ctx context.Context, userID int64) ([]model.Favorite, error)
	DeleteFavorite(ctx context.Context, id int64) error
}

type AdoptionRepository interface {
	CreateAdoption(ctx context.Context, adoption *model.Adoption) error
	GetAdoptionByID(ctx context.Context, id int64) (*model.Adoption, error)
	ListAdoptionsByUser(ctx context.Context, userID int64) ([]model.Adoption, error)
	ListAdoptionsByPet(ctx context.Context, petID int64) ([]model.Adoption, error)
}

// Store is everything a backend provides.
type Store interface {
	UserRepository
	PetRepository
	FavoriteRepository
	AdoptionRepository
	Ping(ctx context.Context) error
	Close() error
}
