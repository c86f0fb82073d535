// Package middleware contains the Gin middleware of the HTTP API.
// Each middleware calls c.Next() to proceed or c.Abort() to stop the chain.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClientKey is the context key holding the identity used for rate limiting:
// the caller's API key, or its IP address on public deployments.
const ClientKey = "client_key"

// APIKeyAuth returns middleware that validates API keys.
// The key can be provided via X-API-Key header or api_key query param
// (the query param lets <meta og:image> and <img> tags reference the API).
//
// An empty key list runs the API in public mode: every request passes and is
// identified by its client IP.
func APIKeyAuth(validKeys []string) gin.HandlerFunc {
	keySet := toSet(validKeys)

	return func(c *gin.Context) {
		if len(keySet) == 0 {
			c.Set(ClientKey, "ip:"+c.ClientIP())
			c.Next()
			return
		}

		key := requestKey(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}
		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		c.Set(ClientKey, key)
		c.Next()
	}
}

// AdminKeyAuth returns middleware that validates admin API keys. Unlike
// APIKeyAuth there is no public mode: without admin keys every admin request
// is refused.
func AdminKeyAuth(adminKeys []string) gin.HandlerFunc {
	keySet := toSet(adminKeys)

	return func(c *gin.Context) {
		key := requestKey(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing admin API key"})
			return
		}
		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid admin API key"})
			return
		}

		c.Set(ClientKey, key)
		c.Next()
	}
}

func requestKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	return c.Query("api_key")
}

// toSet builds a set for O(1) lookups; empty entries are ignored.
func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
