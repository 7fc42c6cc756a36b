package middleware

import (
	"net/http"                     // HTTP status codes
	"persona_diary/internal/utils" // Session token utilities

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// SessionCookie names the browser cookie carrying the signed session token
const SessionCookie = "session"

// RevokedSessionKey builds the Redis key marking a logged-out session
func RevokedSessionKey(jti string) string {
	return "session:revoked:" + jti
}

// SessionAuthMiddleware validates the session cookie and puts the identity
// into the request context. Unauthenticated requests are redirected to the
// login page rather than rejected, since every consumer is a browser flow.
func SessionAuthMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie) // Get session cookie
		if err != nil || tokenStr == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		claims, err := utils.ParseSessionToken(tokenStr, secret) // Parse the session token
		if err != nil {
			// Invalid or expired token; drop the stale cookie
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		// A logged-out session stays on the revocation list until its token expires
		revoked, err := rdb.Exists(c.Request.Context(), RevokedSessionKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("userID", claims.UserID) // Store userID in context
		c.Set("sessionID", claims.ID)  // jti, consumed by logout
		// Remaining token life bounds the revocation TTL at logout
		c.Set("sessionExpiry", claims.ExpiresAt.Time)
		c.Next() // Proceed to the next handler
	}
}
