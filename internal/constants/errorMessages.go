package constants

// User-facing messages. Error detail stays in the logs.
const (
	MsgInvalidRequest       = "Invalid request"
	MsgUnauthorized         = "Unauthorized"
	MsgForbidden            = "You do not have permission to do that"
	MsgMFARequired          = "Multi-factor authentication is required for this action"
	MsgAccountInactive      = "Your account is not active"
	MsgNotFound             = "Not found"
	MsgInternal             = "Something went wrong"
	MsgAlreadySignedUp      = "You are already signed up"
	MsgNotSignedUp          = "You are not signed up"
	MsgEquipmentUnavailable = "Equipment is already checked out"
	MsgEquipmentObsolete    = "Equipment is marked obsolete"
	MsgAlreadyReturned      = "Equipment has already been returned"
	MsgEquipmentInUse       = "Failed to delete equipment: it has assignment history"
	MsgPolicyNotViewed      = "Open the policy document before acknowledging it"
	MsgDuplicate            = "A record with those details already exists"
	MsgTooManyRequests      = "Too many requests"
)

// Operation failure messages, returned when the cause is not user-actionable
const (
	MsgFailedToFetch      = "Failed to fetch"
	MsgFailedToSave       = "Failed to save"
	MsgFailedToDelete     = "Failed to delete"
	MsgFailedToUpload     = "Failed to upload file"
	MsgFailedToSignURL    = "Failed to generate file link"
	MsgFailedToRunJobs    = "Failed to run reminder sweeps"
	MsgFailedToUpdateRole = "Failed to update user"
)
