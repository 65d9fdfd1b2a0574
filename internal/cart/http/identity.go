package http

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "cart.identity"

// Identity is who is asking: an optional signed-in user and the anonymous
// cart token from the cookie. Either or both may be empty.
type Identity struct {
	UserID string
	Token  string
}

// IdentityConfig names where the identity comes from. UserHeader is trusted,
// so it must be set by an upstream auth proxy and stripped from client input.
type IdentityConfig struct {
	UserHeader   string
	CookieName   string
	CookieSecure bool
}

func IdentityMiddleware(cfg IdentityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity{
			UserID: strings.TrimSpace(c.GetHeader(cfg.UserHeader)),
		}
		if token, err := c.Cookie(cfg.CookieName); err == nil {
			id.Token = strings.TrimSpace(token)
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func identityFrom(c *gin.Context) Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}
	}
	id, _ := v.(Identity)
	return id
}
