package constants

import "time"

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
	ContextKeyOwnerID   = "owner_id"
)

// Session
const (
	SessionCookieName    = "taskboard_session"
	SessionKeyOAuthState = "oauth_state"
)

// Headers
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	BearerPrefix        = "Bearer "
)

// Auth
const (
	MinPasswordLength = 6
	DefaultTokenTTL   = 7 * 24 * time.Hour
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AI suggestions
const (
	MaxAIGeneratedTasks = 20
)

// Admin stats
const (
	GrowthMonths = 6
)

// DefaultList describes a list created together with every new board.
type DefaultList struct {
	Title string
	Color string
	Order int
}

// DefaultLists are created, in order, whenever a board is created.
var DefaultLists = []DefaultList{
	{Title: "Today", Color: "#3b82f6", Order: 0},
	{Title: "This Week", Color: "#10b981", Order: 1},
	{Title: "Later", Color: "#f59e0b", Order: 2},
	{Title: "Doing", Color: "#8b5cf6", Order: 3},
}
