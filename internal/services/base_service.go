package services

import (
	"context"

	"procurement-system/pkg/contextkeys"
	apperrors "procurement-system/pkg/errors"
)

// actorFromContext returns the authenticated user id placed into the context
// by the auth middleware.
func actorFromContext(ctx context.Context) (int, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(int)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func roleFromContext(ctx context.Context) (uint64, error) {
	roleID, ok := ctx.Value(contextkeys.UserRoleIDKey).(uint64)
	if !ok || roleID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return roleID, nil
}

// requestMetaFromContext returns the source IP and user agent captured by the
// auth middleware for audit entries. Both may be empty.
func requestMetaFromContext(ctx context.Context) (sourceIP, userAgent string) {
	if ip, ok := ctx.Value(contextkeys.SourceIPKey).(string); ok {
		sourceIP = ip
	}
	if ua, ok := ctx.Value(contextkeys.UserAgentKey).(string); ok {
		userAgent = ua
	}
	return sourceIP, userAgent
}
