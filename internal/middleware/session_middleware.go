package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/laced-shop/laced-backend/config"
	"github.com/laced-shop/laced-backend/pkg/util"
)

// SessionTokenKey is the context key holding the cart session token.
const SessionTokenKey = "cart_session_token"

type SessionMiddleware struct {
	cfg config.SessionConfig
}

func NewSessionMiddleware(cfg config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{cfg: cfg}
}

// CartSession ensures every visitor carries a stable cart session cookie.
// The token is issued once and deliberately kept across login: the login
// flow still needs it to find the anonymous cart to merge. It never
// carries authentication, only cart identity.
func (m *SessionMiddleware) CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cfg.CookieName)
		if err != nil || token == "" {
			token, err = util.GenerateSessionToken()
			if err != nil {
				log := GetLoggerFromContext(c)
				log.Error("Failed to generate cart session token", err, nil)
				c.Next()
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				m.cfg.CookieName,
				token,
				int(m.cfg.CookieMaxAge.Seconds()),
				"/",
				"",
				m.cfg.CookieSecure,
				true,
			)
		}

		c.Set(SessionTokenKey, token)
		c.Next()
	}
}

// GetSessionToken extracts the cart session token from context
func GetSessionToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(SessionTokenKey)
	if !exists {
		return "", false
	}
	return token.(string), true
}
