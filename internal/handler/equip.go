package handler

import (
	"encoding/json"
	"net/http"

	"github.com/loadoutlab/armory/internal/domain"
	"github.com/loadoutlab/armory/internal/logger"
	"github.com/loadoutlab/armory/internal/user"
)

// EquipRequest equips or unequips one item. Index is the item uid; CSTeam
// narrows the change to one team's loadout and Unequip flips the direction.
type EquipRequest struct {
	Index   int  `json:"index" validate:"min=0"`
	CSTeam  *int `json:"csTeam,omitempty" validate:"omitempty,oneof=0 2 3"`
	Unequip bool `json:"unequip,omitempty"`
}

// HandleEquipItem changes an item's equipped state outside a sync batch.
// The game server drives this path, so no client timestamp is required.
func HandleEquipItem(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgMissingUserID)
			return
		}

		var req EquipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode equip request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid equip request", "error", err)
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		team := domain.TeamNone
		if req.CSTeam != nil {
			team = domain.Team(*req.CSTeam)
		}

		if _, err := svc.UpdateEquipped(r.Context(), userID, req.Index, team, !req.Unequip); err != nil {
			log.Error("Failed to update equipped state", "error", err, "userId", userID, "uid", req.Index)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
