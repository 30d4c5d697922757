package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/folium-app/folium-core/internal/plant"
)

// handleListPlants returns all plants belonging to the authenticated user.
func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := s.plants.ListForOwner(r.Context(), currentUser(r).Username)
	if err != nil {
		s.writePlantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plants)
}

// handleCreatePlant creates a new plant for the authenticated user.
func (s *Server) handleCreatePlant(w http.ResponseWriter, r *http.Request) {
	var p plant.Plant
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	created, err := s.plants.Create(r.Context(), &p, currentUser(r).Username)
	if err != nil {
		s.writePlantError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleUpdatePlant rewrites a plant owned by the authenticated user. The
// path ID is authoritative; any ID in the body is overwritten.
func (s *Server) handleUpdatePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(w, r)
	if !ok {
		return
	}

	var p plant.Plant
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	p.ID = id

	updated, err := s.plants.Update(r.Context(), &p, currentUser(r).Username)
	if err != nil {
		s.writePlantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeletePlant removes a plant owned by the authenticated user and
// returns its last stored state.
func (s *Server) handleDeletePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(w, r)
	if !ok {
		return
	}

	owner := currentUser(r).Username
	removed, err := s.plants.Remove(r.Context(), &plant.Plant{ID: id, OwnerUsername: owner}, owner)
	if err != nil {
		s.writePlantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, removed)
}

// plantID parses the {id} path parameter, writing a 400 response on failure.
func plantID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid plant id")
		return 0, false
	}
	return id, true
}

// writePlantError maps plant service errors to HTTP responses.
func (s *Server) writePlantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, plant.ErrPlantNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, plant.ErrBlankID):
		writeUnprocessable(w, err.Error())
	case errors.Is(err, plant.ErrOwnerMismatch):
		writeUnprocessable(w, err.Error())
	default:
		s.logger.Error("plant operation failed", "error", err)
		writeInternalError(w, "internal server error")
	}
}
