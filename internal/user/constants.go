package user

// Error Messages - Sync Operations
const (
	ErrMsgFailedToEnsureUser     = "failed to ensure user"
	ErrMsgFailedToLoadUser       = "failed to load user"
	ErrMsgFailedToLoadInventory  = "failed to load inventory"
	ErrMsgFailedToApplyActions   = "failed to apply actions"
	ErrMsgFailedToEncodeSnapshot = "failed to encode inventory snapshot"
	ErrMsgFailedToCommitSnapshot = "failed to commit inventory snapshot"
)
