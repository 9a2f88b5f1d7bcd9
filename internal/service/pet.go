package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/pet-adoption/internal/apperror"
	"github.com/sakif/pet-adoption/internal/model"
	"github.com/sakif/pet-adoption/internal/repository"
)

// PetService handles pets listed for adoption.
type PetService struct {
	repo   repository.PetRepository
	logger *slog.Logger
}

func NewPetService(repo repository.PetRepository, logger *slog.Logger) *PetService {
	return &PetService{repo: repo, logger: logger}
}

// Create lists a new pet owned by ownerID.
func (s *PetService) Create(ctx context.Context, ownerID int64, name string) (*model.Pet, error) {
	if err := requireID("owner_id", ownerID); err != nil {
		return nil, err
	}
	name, err := cleanName("pet", name, MaxPetNameLength)
	if err != nil {
		return nil, err
	}

	pet := &model.Pet{Name: name, OwnerID: model.Int64(ownerID)}
	if err := s.repo.CreatePet(ctx, pet); err != nil {
		s.logger.Error("failed to create pet",
			slog.Int64("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating pet: %w", err)
	}

	s.logger.Info("pet created",
		slog.Int64("id", pet.ID),
		slog.String("name", pet.Name),
	)
	return pet, nil
}

// Get returns a pet by id. Returns apperror.ErrNotFound if it doesn't exist.
func (s *PetService) Get(ctx context.Context, id int64) (*model.Pet, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.repo.GetPetByID(ctx, id)
}

// PetQuery is the caller-facing form of repository.PetFilter.
type PetQuery struct {
	OwnerID    int64 // 0 means any owner
	NamePrefix string
	Limit      int
	Offset     int
}

// List returns pets ordered by id, clamping the page to MaxListLimit.
func (s *PetService) List(ctx context.Context, q PetQuery) ([]model.Pet, error) {
	limit, offset := clampPage(q.Limit, q.Offset)

	filter := repository.PetFilter{
		NamePrefix:  strings.TrimSpace(q.NamePrefix),
		ListOptions: repository.ListOptions{Limit: limit, Offset: offset},
	}
	if q.OwnerID < 0 {
		return nil, apperror.ValidationFailed("owner_id", "owner_id must be a positive integer")
	}
	if q.OwnerID > 0 {
		filter.OwnerID = model.Int64(q.OwnerID)
	}

	pets, err := s.repo.ListPets(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list pets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	return pets, nil
}

// Rename changes a pet's name. Only the owner may rename; a pet without an
// owner cannot be renamed through the API.
func (s *PetService) Rename(ctx context.Context, callerID, id int64, name string) (*model.Pet, error) {
	name, err := cleanName("pet", name, MaxPetNameLength)
	if err != nil {
		return nil, err
	}
	pet, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	pet.Name = name
	if err := s.repo.UpdatePet(ctx, pet); err != nil {
		s.logger.Error("failed to update pet",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating pet: %w", err)
	}

	s.logger.Info("pet renamed", slog.Int64("id", pet.ID), slog.String("name", pet.Name))
	return pet, nil
}

// Delete removes a pet owned by callerID. A pet with adoptions on record
// fails with apperror.ErrConflict when the store enforces foreign keys.
func (s *PetService) Delete(ctx context.Context, callerID, id int64) error {
	if _, err := s.owned(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.repo.DeletePet(ctx, id); err != nil {
		return err
	}

	s.logger.Info("pet deleted", slog.Int64("id", id))
	return nil
}

func (s *PetService) owned(ctx context.Context, callerID, id int64) (*model.Pet, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	pet, err := s.repo.GetPetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owns(pet.OwnerID, callerID) {
		return nil, apperror.Forbidden(fmt.Sprintf("pet %d does not belong to you", id))
	}
	return pet, nil
}
