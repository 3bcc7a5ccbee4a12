package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/handler/httperr"
	"storefront/internal/pkg/config"
	"storefront/internal/pkg/cookie"
	"storefront/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartIDContextKey = "cart_id"

type SessionMiddleware struct {
	tokens *session.Service
	cfg    config.SessionConfig
}

func NewSessionMiddleware(tokens *session.Service, cfg config.Config) *SessionMiddleware {
	return &SessionMiddleware{
		tokens: tokens,
		cfg:    cfg.Session,
	}
}

// EnsureCart binds every request to a cart identity. A missing, invalid, or
// expired session cookie silently becomes a fresh guest session with an empty
// cart: shoppers are never asked to authenticate to browse or fill a cart.
func (m *SessionMiddleware) EnsureCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(m.cfg.CookieName); err == nil {
			if cartID, validateErr := m.tokens.Validate(token); validateErr == nil {
				c.Set(cartIDContextKey, cartID)
				c.Next()
				return
			}
		}

		cartID, token, err := m.tokens.Issue(time.Now())
		if err != nil {
			slog.Error("failed to issue cart session", "error", err)
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
			return
		}

		cookie.SetCartSessionCookie(c, m.cfg, token, m.cfg.Duration)
		c.Set(cartIDContextKey, cartID)
		c.Next()
	}
}

func GetCartID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(cartIDContextKey)
	if !exists {
		return uuid.Nil, false
	}
	cartID, ok := value.(uuid.UUID)
	return cartID, ok
}
