package utils

import "github.com/gin-gonic/gin"

// CurrentUserID returns the authenticated user's id set by the auth middleware.
func CurrentUserID(c *gin.Context) string {
	if v, ok := c.Get("userId"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// CurrentOrganizationID returns the active organization id from the token,
// or "" when the user has not activated an organization yet.
func CurrentOrganizationID(c *gin.Context) string {
	if v, ok := c.Get("organizationId"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
