package contextkeys

type contextKey string

const (
	UserIDKey     contextKey = "UserID"
	UserRoleIDKey contextKey = "UserRoleID"
	SourceIPKey   contextKey = "SourceIP"
	UserAgentKey  contextKey = "UserAgent"
)
