package constants

// ContextKeyScope holds the auth.Scope of an authenticated request.
const ContextKeyScope = "scope"

// Pagination
const (
	// PageSize is fixed for every list endpoint and cannot be changed per request.
	PageSize    = 10
	DefaultPage = 1
	PageParam   = "page"
)

// Accounts
const (
	MinPasswordLength = 8
	BearerScheme      = "Bearer"
)

// DateLayout is the only accepted representation of calendar dates, both in
// query parameters and in JSON payloads.
const DateLayout = "2006-01-02"

// Response codes carried in the JSON envelopes
const (
	CodeOK      = "200"
	CodeCreated = "201"
)

// AI task generation
const (
	MaxAIGeneratedTasks = 20
	MaxAIInputLength    = 4000
)
