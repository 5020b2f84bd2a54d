// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Context keys and getter/setter functions live here so values set by
// middleware can be consumed by services without importing net/http. The
// request-scoped clock (Now) keeps every operation within one request on the
// same timestamp and lets tests pin time deterministically:
//
//	userID := requestcontext.UserID(ctx)
//	now := requestcontext.Now(ctx)
//
//	ctx = requestcontext.WithTime(ctx, fixedTime) // in tests
package requestcontext

import (
	"context"
	"time"

	id "schemeteller/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	userIDKey    struct{}
	roleKey      struct{}
	tokenJTIKey  struct{}
	clientIPKey  struct{}
	userAgentKey struct{}
	requestIDKey struct{}
	timeKey      struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyUserID    = userIDKey{}
	ContextKeyRole      = roleKey{}
	ContextKeyTokenJTI  = tokenJTIKey{}
	ContextKeyClientIP  = clientIPKey{}
	ContextKeyUserAgent = userAgentKey{}
	ContextKeyRequestID = requestIDKey{}
	ContextKeyTime      = timeKey{}
)

// UserID retrieves the authenticated user ID from the context. Returns the
// zero value (nil UUID) if not set.
func UserID(ctx context.Context) id.UserID {
	if userID, ok := ctx.Value(ContextKeyUserID).(id.UserID); ok {
		return userID
	}
	return id.UserID{}
}

// WithUserID injects a user ID into the context.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// Role retrieves the authenticated user's role from the context.
func Role(ctx context.Context) id.Role {
	if role, ok := ctx.Value(ContextKeyRole).(id.Role); ok {
		return role
	}
	return ""
}

// WithRole injects the authenticated user's role into the context.
func WithRole(ctx context.Context, role id.Role) context.Context {
	return context.WithValue(ctx, ContextKeyRole, role)
}

// TokenJTI retrieves the JWT ID of the presented access token.
func TokenJTI(ctx context.Context) string {
	if jti, ok := ctx.Value(ContextKeyTokenJTI).(string); ok {
		return jti
	}
	return ""
}

// WithTokenJTI injects the access token's JWT ID into the context.
func WithTokenJTI(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, ContextKeyTokenJTI, jti)
}

// ClientIP retrieves the originating client IP recorded by middleware.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects the originating client IP into the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ContextKeyClientIP, ip)
}

// UserAgent retrieves the normalized user agent description.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithUserAgent injects the normalized user agent description.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, ContextKeyUserAgent, ua)
}

// RequestID retrieves the correlation ID for the current request.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time, falling back to the wall clock when
// no middleware has pinned one (background jobs, tests that don't care).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins a specific time in the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyTime, t)
}
