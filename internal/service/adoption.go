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

// AdoptionPolicy decides whether a pet may be adopted more than once.
type AdoptionPolicy string

const (
	// PolicyOpen records every adoption request; the adoptions table has
	// no uniqueness on pet_id.
	PolicyOpen AdoptionPolicy = "open"
	// PolicySingle rejects an adoption when the pet already has one.
	PolicySingle AdoptionPolicy = "single"
)

// ParsePolicy parses a policy name. The empty string means PolicyOpen.
func ParsePolicy(s string) (AdoptionPolicy, error) {
	switch p := AdoptionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyOpen:
		return PolicyOpen, nil
	case PolicySingle:
		return PolicySingle, nil
	default:
		return "", fmt.Errorf("service: unknown adoption policy %q (want %q or %q)", s, PolicyOpen, PolicySingle)
	}
}

type AdoptionService struct {
	adoptions repository.AdoptionRepository
	pets      repository.PetRepository
	policy    AdoptionPolicy
	logger    *slog.Logger
}

func NewAdoptionService(
	adoptions repository.AdoptionRepository,
	pets repository.PetRepository,
	policy AdoptionPolicy,
	logger *slog.Logger,
) *AdoptionService {
	if policy == "" {
		policy = PolicyOpen
	}
	return &AdoptionService{
		adoptions: adoptions,
		pets:      pets,
		policy:    policy,
		logger:    logger,
	}
}

func (s *AdoptionService) Policy() AdoptionPolicy {
	return s.policy
}

// Adopt records userID adopting petID. The pet must exist.
//
// Under PolicySingle the check and the insert are separate statements, so
// two concurrent requests for the same pet can both succeed.
func (s *AdoptionService) Adopt(ctx context.Context, userID, petID int64) (*model.Adoption, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if err := requireID("pet_id", petID); err != nil {
		return nil, err
	}

	if _, err := s.pets.GetPetByID(ctx, petID); err != nil {
		return nil, err
	}

	if s.policy == PolicySingle {
		existing, err := s.adoptions.ListAdoptionsByPet(ctx, petID)
		if err != nil {
			return nil, fmt.Errorf("checking adoptions of pet %d: %w", petID, err)
		}
		if len(existing) > 0 {
			return nil, apperror.Conflict("adoption", fmt.Sprintf("pet %d is already adopted", petID))
		}
	}

	a := &model.Adoption{PetID: model.Int64(petID), UserID: model.Int64(userID)}
	if err := s.adoptions.CreateAdoption(ctx, a); err != nil {
		s.logger.Error("failed to create adoption",
			slog.Int64("petID", petID),
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating adoption: %w", err)
	}

	s.logger.Info("pet adopted",
		slog.Int64("id", a.ID),
		slog.Int64("petID", petID),
		slog.Int64("userID", userID),
	)
	return a, nil
}

func (s *AdoptionService) ListForUser(ctx context.Context, userID int64) ([]model.Adoption, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	list, err := s.adoptions.ListAdoptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing adoptions of user %d: %w", userID, err)
	}
	return list, nil
}

// ListForPet returns the adoption history of a pet, oldest first.
func (s *AdoptionService) ListForPet(ctx context.Context, petID int64) ([]model.Adoption, error) {
	if err := requireID("pet_id", petID); err != nil {
		return nil, err
	}
	if _, err := s.pets.GetPetByID(ctx, petID); err != nil {
		return nil, err
	}
	list, err := s.adoptions.ListAdoptionsByPet(ctx, petID)
	if err != nil {
		return nil, fmt.Errorf("listing adoptions of pet %d: %w", petID, err)
	}
	return list, nil
}
