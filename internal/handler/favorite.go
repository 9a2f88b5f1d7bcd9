package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pet-adoption/internal/auth"
	"github.com/sakif/pet-adoption/internal/service"
)

// FavoriteHandler serves the caller's favorites. Every route requires auth.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	logger    *slog.Logger
}

func NewFavoriteHandler(favorites *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: logger}
}

type favoriteRequest struct {
	Name string `json:"name"`
}

// HTTP: GET /api/favorites
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	favs, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		logFailure(r.Context(), h.logger, "listing favorites", err, slog.Int64("userID", userID))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

// HTTP: POST /api/favorites {"name": "beagles"}
func (h *FavoriteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req favoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	fav, err := h.favorites.Add(r.Context(), userID, req.Name)
	if err != nil {
		logFailure(r.Context(), h.logger, "adding favorite", err, slog.Int64("userID", userID))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

// HTTP: DELETE /api/favorites/{id}
func (h *FavoriteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.favorites.Remove(r.Context(), userID, id); err != nil {
		logFailure(r.Context(), h.logger, "removing favorite", err,
			slog.Int64("userID", userID), slog.Int64("favoriteID", id))
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
