package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pet-adoption/internal/apperror"
	"github.com/sakif/pet-adoption/internal/auth"
	"github.com/sakif/pet-adoption/internal/service"
)

// AdoptionHandler serves the caller's adoptions.
type AdoptionHandler struct {
	adoptions *service.AdoptionService
	logger    *slog.Logger
}

func NewAdoptionHandler(adoptions *service.AdoptionService, logger *slog.Logger) *AdoptionHandler {
	return &AdoptionHandler{adoptions: adoptions, logger: logger}
}

type adoptionRequest struct {
	PetID *int64 `json:"petId"`
}

// HandleList returns the caller's adoptions, oldest first.
//
// HTTP: GET /api/adoptions (RequireAuth)
func (h *AdoptionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	list, err := h.adoptions.ListForUser(r.Context(), userID)
	if err != nil {
		logFailure(r.Context(), h.logger, "listing adoptions", err, slog.Int64("userID", userID))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreate records the caller adopting a pet.
//
// HTTP: POST /api/adoptions (RequireAuth)
// REQUEST BODY: {"petId": 3}
//
// 404 if the pet does not exist; 409 under the "single" policy when the
// pet is already adopted.
func (h *AdoptionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req adoptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.PetID == nil {
		writeError(w, apperror.ValidationFailed("petId", "petId is required"))
		return
	}

	adoption, err := h.adoptions.Adopt(r.Context(), userID, *req.PetID)
	if err != nil {
		logFailure(r.Context(), h.logger, "adopting pet", err,
			slog.Int64("userID", userID), slog.Int64("petID", *req.PetID))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, adoption)
}
