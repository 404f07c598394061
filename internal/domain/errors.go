package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Catalog errors
	ErrMsgItemNotFound = "item not found"

	// Inventory errors
	ErrMsgUIDNotFound         = "uid not found"
	ErrMsgInventoryFull       = "inventory is full"
	ErrMsgStorageUnitFull     = "storage unit is full"
	ErrMsgInvalidTool         = "item is not the expected tool"
	ErrMsgWrongItemType       = "wrong item type"
	ErrMsgStorageUnitNotNamed = "storage unit must be named first"
	ErrMsgStickerSlotOccupied = "sticker slot is occupied"
	ErrMsgStickerSlotEmpty    = "sticker slot is empty"
	ErrMsgNotStatTrak         = "item has no stattrak counter"
	ErrMsgInvalidStickerIndex = "invalid sticker index"

	// Sync errors
	ErrMsgSyncConflict = "inventory was modified by another request"

	// Rule errors
	ErrMsgRuleViolation = "action violates a configured rule"
	ErrMsgEditForbidden = "inventory item editing is disabled"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Catalog errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)

	// Inventory errors
	ErrUIDNotFound         = errors.New(ErrMsgUIDNotFound)
	ErrInventoryFull       = errors.New(ErrMsgInventoryFull)
	ErrStorageUnitFull     = errors.New(ErrMsgStorageUnitFull)
	ErrInvalidTool         = errors.New(ErrMsgInvalidTool)
	ErrWrongItemType       = errors.New(ErrMsgWrongItemType)
	ErrStorageUnitNotNamed = errors.New(ErrMsgStorageUnitNotNamed)
	ErrStickerSlotOccupied = errors.New(ErrMsgStickerSlotOccupied)
	ErrStickerSlotEmpty    = errors.New(ErrMsgStickerSlotEmpty)
	ErrNotStatTrak         = errors.New(ErrMsgNotStatTrak)
	ErrInvalidStickerIndex = errors.New(ErrMsgInvalidStickerIndex)

	// Sync errors
	ErrSyncConflict = errors.New(ErrMsgSyncConflict)

	// Rule errors
	ErrRuleViolation = errors.New(ErrMsgRuleViolation)
	ErrEditForbidden = errors.New(ErrMsgEditForbidden)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Database/System errors
	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)
