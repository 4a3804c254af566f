// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "session_id"
	customerKey   = "customer_id"

	sessionMaxAge = 30 * 24 * 60 * 60 // 30 days, matches the Redis state TTL
)

// CustomerSession identifies the shopper by the session_id cookie, issuing a
// new one when it is missing or malformed.
func CustomerSession(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.New().String()
		}

		// Refresh the cookie on every request so active shoppers keep it
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sessionID, sessionMaxAge, "/", "", secure, true)

		c.Set(customerKey, sessionID)
		c.Next()
	}
}

// GetCustomerID returns the shopper id set by CustomerSession
func GetCustomerID(c *gin.Context) string {
	return c.GetString(customerKey)
}
