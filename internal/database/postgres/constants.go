package postgres

// Error Messages - User Operations
const (
	ErrMsgFailedToGetUser         = "failed to get user"
	ErrMsgFailedToEnsureUser      = "failed to ensure user"
	ErrMsgFailedToUpdateInventory = "failed to update inventory"
	ErrMsgFailedToCheckUserExists = "failed to check user exists"
)
