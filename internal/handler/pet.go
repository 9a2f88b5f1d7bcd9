package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pet-adoption/internal/auth"
	"github.com/sakif/pet-adoption/internal/service"
)

// PetHandler serves the pet catalogue and each pet's adoption history.
type PetHandler struct {
	pets      *service.PetService
	adoptions *service.AdoptionService
	logger    *slog.Logger
}

func NewPetHandler(pets *service.PetService, adoptions *service.AdoptionService, logger *slog.Logger) *PetHandler {
	return &PetHandler{pets: pets, adoptions: adoptions, logger: logger}
}

type petRequest struct {
	Name string `json:"name"`
}

// HandleList returns pets ordered by id.
//
// HTTP: GET /api/pets?owner_id=1&name=Re&limit=20&offset=0
// All query parameters are optional; name is a prefix match.
func (h *PetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := service.PetQuery{NamePrefix: r.URL.Query().Get("name")}

	ownerID, err := queryInt(r, "owner_id")
	if err != nil {
		writeError(w, err)
		return
	}
	q.OwnerID = int64(ownerID)

	if q.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(w, err)
		return
	}
	if q.Offset, err = queryInt(r, "offset"); err != nil {
		writeError(w, err)
		return
	}

	pets, err := h.pets.List(r.Context(), q)
	if err != nil {
		logFailure(r.Context(), h.logger, "listing pets", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

// HandleGet returns a single pet.
//
// HTTP: GET /api/pets/{id}
func (h *PetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	pet, err := h.pets.Get(r.Context(), id)
	if err != nil {
		logFailure(r.Context(), h.logger, "getting pet", err, slog.Int64("petID", id))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// HandleCreate lists a pet owned by the caller.
//
// HTTP: POST /api/pets (RequireAuth)
// REQUEST BODY: {"name": "Rex"}
func (h *PetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req petRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	pet, err := h.pets.Create(r.Context(), userID, req.Name)
	if err != nil {
		logFailure(r.Context(), h.logger, "creating pet", err, slog.Int64("userID", userID))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pet)
}

// HandleRename changes a pet's name. Only the owner may do this.
//
// HTTP: PUT /api/pets/{id} (RequireAuth)
func (h *PetHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req petRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	pet, err := h.pets.Rename(r.Context(), userID, id, req.Name)
	if err != nil {
		logFailure(r.Context(), h.logger, "renaming pet", err,
			slog.Int64("userID", userID), slog.Int64("petID", id))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// HandleDelete removes a pet owned by the caller. 409 if the pet still has
// adoptions on record.
//
// HTTP: DELETE /api/pets/{id} (RequireAuth)
func (h *PetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.pets.Delete(r.Context(), userID, id); err != nil {
		logFailure(r.Context(), h.logger, "deleting pet", err,
			slog.Int64("userID", userID), slog.Int64("petID", id))
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAdoptions returns the adoption history of a pet, oldest first.
//
// HTTP: GET /api/pets/{id}/adoptions
func (h *PetHandler) HandleAdoptions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.adoptions.ListForPet(r.Context(), id)
	if err != nil {
		logFailure(r.Context(), h.logger, "listing pet adoptions", err, slog.Int64("petID", id))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
