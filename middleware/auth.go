package middleware

import (
	"net/http"
	"strings"

	"healthlink-backend/auth"
	"healthlink-backend/lifecycle"
	"healthlink-backend/utils"

	"github.com/gin-gonic/gin"
)

const viewerKey = "viewer"

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func viewerFromToken(token string) (lifecycle.Viewer, bool) {
	claims, err := auth.ParseAndValidate(token)
	if err != nil {
		return lifecycle.Viewer{}, false
	}
	id, err := claims.UserID()
	if err != nil {
		return lifecycle.Viewer{}, false
	}
	return lifecycle.Viewer{ID: id, Role: claims.Role}, true
}

// RequireAuth rejects requests without a valid bearer token and stores the
// viewer for handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}
		viewer, ok := viewerFromToken(token)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(viewerKey, viewer)
		c.Next()
	}
}

// OptionalAuth stores the viewer when a valid token is present and leaves
// the anonymous zero viewer otherwise. Used on public listings where the
// resolver falls open to the least privileged path.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if viewer, ok := viewerFromToken(token); ok {
				c.Set(viewerKey, viewer)
			}
		}
		c.Next()
	}
}

// RequireCapability gates a route on the role-to-capability table.
func RequireCapability(cap lifecycle.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := ViewerFrom(c)
		if !lifecycle.Can(viewer, cap) {
			utils.JSONError(c, http.StatusForbidden, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ViewerFrom returns the authenticated viewer or the anonymous zero value.
func ViewerFrom(c *gin.Context) lifecycle.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok2 := v.(lifecycle.Viewer); ok2 {
			return viewer
		}
	}
	return lifecycle.Viewer{}
}
