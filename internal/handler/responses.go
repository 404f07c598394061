package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/loadoutlab/armory/internal/domain"
)

// Standard response types for consistent API responses

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SyncResponse confirms a committed batch with the new timestamp
type SyncResponse struct {
	SyncedAt int64 `json:"syncedAt"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	ErrMsgUserNotFoundError       = "User not found"
	ErrMsgItemNotFoundError       = "Item not found"
	ErrMsgUIDNotFoundError        = "You don't have that item"
	ErrMsgInventoryFullError      = "Inventory is full"
	ErrMsgStorageUnitFullError    = "Storage unit is full"
	ErrMsgInvalidToolError        = "That item is not the right tool"
	ErrMsgWrongItemTypeError      = "That item cannot be used this way"
	ErrMsgStorageUnitUnnamedError = "Name the storage unit before depositing items"
	ErrMsgStickerSlotTakenError   = "That sticker slot is already taken"
	ErrMsgStickerSlotEmptyError   = "There is no sticker in that slot"
	ErrMsgNotStatTrakError        = "Both items must be StatTrak"
	ErrMsgStickerIndexError       = "Invalid sticker slot"
	ErrMsgSyncConflictError       = "Inventory is out of date. Sync again."
	ErrMsgRuleViolationError      = "That item cannot be crafted"
	ErrMsgEditForbiddenError      = "Item editing is disabled"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Internal detail stays in the logs, never in the body.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrSyncConflict):
		return http.StatusConflict, ErrMsgSyncConflictError
	case errors.Is(err, domain.ErrEditForbidden):
		return http.StatusForbidden, ErrMsgEditForbiddenError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusBadRequest, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrUIDNotFound):
		return http.StatusBadRequest, ErrMsgUIDNotFoundError
	case errors.Is(err, domain.ErrInventoryFull):
		return http.StatusBadRequest, ErrMsgInventoryFullError
	case errors.Is(err, domain.ErrStorageUnitFull):
		return http.StatusBadRequest, ErrMsgStorageUnitFullError
	case errors.Is(err, domain.ErrInvalidTool):
		return http.StatusBadRequest, ErrMsgInvalidToolError
	case errors.Is(err, domain.ErrWrongItemType):
		return http.StatusBadRequest, ErrMsgWrongItemTypeError
	case errors.Is(err, domain.ErrStorageUnitNotNamed):
		return http.StatusBadRequest, ErrMsgStorageUnitUnnamedError
	case errors.Is(err, domain.ErrStickerSlotOccupied):
		return http.StatusBadRequest, ErrMsgStickerSlotTakenError
	case errors.Is(err, domain.ErrStickerSlotEmpty):
		return http.StatusBadRequest, ErrMsgStickerSlotEmptyError
	case errors.Is(err, domain.ErrNotStatTrak):
		return http.StatusBadRequest, ErrMsgNotStatTrakError
	case errors.Is(err, domain.ErrInvalidStickerIndex):
		return http.StatusBadRequest, ErrMsgStickerIndexError
	case errors.Is(err, domain.ErrRuleViolation):
		return http.StatusBadRequest, ErrMsgRuleViolationError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrDatabaseError):
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
