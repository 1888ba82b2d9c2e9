package constants

// Context keys used to pass authenticated state between middleware and handlers
const (
	ContextKeyUserID     = "user_id"
	ContextKeyUser       = "current_user"
	ContextKeyTeam       = "team"
	ContextKeyMembership = "team_membership"
	ContextKeyTask       = "task"
)

// Authentication
const (
	AccessTokenCookie = "access_token"
	MinPasswordLength = 8
)

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
