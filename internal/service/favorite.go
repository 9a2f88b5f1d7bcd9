package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/pet-adoption/internal/apperror"
	"github.com/sakif/pet-adoption/internal/model"
	"github.com/sakif/pet-adoption/internal/repository"
)

// FavoriteService manages a user's named favorites. The same name may be
// saved more than once.
type FavoriteService struct {
	repo   repository.FavoriteRepository
	logger *slog.Logger
}

func NewFavoriteService(repo repository.FavoriteRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, logger: logger}
}

func (s *FavoriteService) Add(ctx context.Context, userID int64, name string) (*model.Favorite, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	name, err := cleanName("favorite", name, MaxFavoriteNameLength)
	if err != nil {
		return nil, err
	}

	fav := &model.Favorite{Name: name, UserID: model.Int64(userID)}
	if err := s.repo.CreateFavorite(ctx, fav); err != nil {
		s.logger.Error("failed to create favorite",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating favorite: %w", err)
	}

	s.logger.Info("favorite added", slog.Int64("id", fav.ID), slog.Int64("userID", userID))
	return fav, nil
}

func (s *FavoriteService) List(ctx context.Context, userID int64) ([]model.Favorite, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	favs, err := s.repo.ListFavoritesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return favs, nil
}

// Remove deletes a favorite belonging to userID.
func (s *FavoriteService) Remove(ctx context.Context, userID, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	fav, err := s.repo.GetFavoriteByID(ctx, id)
	if err != nil {
		return err
	}
	if !owns(fav.UserID, userID) {
		return apperror.Forbidden(fmt.Sprintf("favorite %d does not belong to you", id))
	}

	if err := s.repo.DeleteFavorite(ctx, id); err != nil {
		return err
	}

	s.logger.Info("favorite removed", slog.Int64("id", id), slog.Int64("userID", userID))
	return nil
}
