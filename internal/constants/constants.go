package constants

// Session and context keys
const (
	SessionCookieName = "farm_session"

	ContextKeyUserID     = "user_id"
	ContextKeyCompanyID  = "company_id"
	ContextKeyMembership = "company_member"
	ContextKeyRequestID  = "request_id"
)

// Validation limits
const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 50

	DefaultInvitationMaxUses = 1
	MaxInvitationMaxUses     = 1000
	MaxInvitationExpiryHours = 24 * 365
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

// MaxAIGeneratedTasks caps how many suggestions a single request may return.
const MaxAIGeneratedTasks = 20
