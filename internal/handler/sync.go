package handler

import (
	"encoding/json"
	"net/http"

	"github.com/loadoutlab/armory/internal/logger"
	"github.com/loadoutlab/armory/internal/sync"
	"github.com/loadoutlab/armory/internal/user"
)

// SyncRequest is the batch envelope the client submits. SyncedAt is the
// client's copy of the timestamp returned by its previous sync; it is nil
// on a user's very first sync.
type SyncRequest struct {
	SyncedAt *int64            `json:"syncedAt"`
	Actions  []json.RawMessage `json:"actions" validate:"required,min=1,max=64"`
}

// HandleSyncActions applies a batch of inventory actions atomically.
func HandleSyncActions(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgMissingUserID)
			return
		}

		var req SyncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode sync request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid sync request", "error", err)
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		actions, err := sync.ParseActions(req.Actions)
		if err != nil {
			log.Warn("Rejected sync batch", "userId", userID, "error", err)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		log.Debug("Sync request", "userId", userID, "actions", len(actions))

		syncedAt, err := svc.SyncActions(r.Context(), userID, req.SyncedAt, actions)
		if err != nil {
			log.Error("Failed to apply sync batch", "error", err, "userId", userID)
			status, msg := mapServiceErrorToUserMessage(err)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, SyncResponse{SyncedAt: syncedAt})
	}
}
