// Package middleware provides Gin HTTP middleware for session resolution,
// request ids, metrics, and security headers.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Recovery → RequestID → Metrics → Logger → CORS → Security → Session → Handler
//
// Security headers run before anything that can abort so they appear on error
// responses too. SessionMiddleware only resolves the identity; RequireAuth on
// the protected group is what rejects anonymous requests.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/db/repositories"
)

const (
	// IdentityKey is the gin.Context key holding the resolved *auth.Identity
	IdentityKey = "identity"
	// UserIDKey holds the authenticated user's id for logging
	UserIDKey = "user_id"

	unauthorizedMessage = "Unauthorized access"
	internalMessage     = "Internal server error"
)

// ErrorBody builds the single-message error envelope shared by every
// non-validation failure.
func ErrorBody(message string) gin.H {
	return gin.H{"errors": []gin.H{{"message": message}}}
}

// sessionToken reads the session token from the cookie, falling back to an
// Authorization: Bearer header
func sessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// SessionMiddleware resolves the caller's session into an identity. Requests
// without a valid session continue anonymously.
func SessionMiddleware(sessions *auth.SessionManager, users repositories.UserStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		session, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			slog.Error("failed to resolve session", "error", err, "request_id", RequestID(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody(internalMessage))
			return
		}
		if session == nil {
			c.Next()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), session.UserID)
		if err != nil {
			slog.Error("failed to load session user", "error", err, "request_id", RequestID(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody(internalMessage))
			return
		}
		if user == nil {
			// Account gone; the session is stale
			c.Next()
			return
		}

		c.Set(IdentityKey, &auth.Identity{User: user, SessionID: session.ID})
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

// RequireAuth rejects requests that SessionMiddleware left anonymous. The
// body matches the ownership gate's so callers cannot tell the two apart.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorBody(unauthorizedMessage))
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity set by SessionMiddleware, or nil
func GetIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}
