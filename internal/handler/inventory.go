package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loadoutlab/armory/internal/logger"
	"github.com/loadoutlab/armory/internal/user"
)

type getInventoryParams struct {
	UserID string `validate:"required,uuid"`
}

// HandleGetInventory returns the catalog-enriched inventory view for a
// user. Reads are served from the LRU cache when possible.
func HandleGetInventory(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		params := getInventoryParams{UserID: chi.URLParam(r, "userId")}
		if err := GetValidator().ValidateStruct(params); err != nil {
			log.Warn("Invalid inventory request", "error", err)
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		view, err := svc.GetInventory(r.Context(), params.UserID)
		if err != nil {
			log.Error("Failed to get inventory", "error", err, "userId", params.UserID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, view)
	}
}

// HandleGetCacheStats reports read cache occupancy.
func HandleGetCacheStats(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.GetCacheStats())
	}
}
