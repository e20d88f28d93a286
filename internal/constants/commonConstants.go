package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixIdentity CachePrefix = "IDENTITY_"
)

// Storage categories used as the first path segment in the file store
const (
	StorageCategoryPolicies = "policies"
	StorageCategoryResumes  = "resumes"
)

// NotificationStream is the Redis stream notifications are published to
const NotificationStream = "notifications"
