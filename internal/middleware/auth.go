package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/constants"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/models"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(token string) (*models.User, error)
}

// RequireAuth checks the bearer token and stores the resolved user in context
func RequireAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Authorization")

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "Token is missing")
			c.Abort()
			return
		}

		user, err := authenticator.Authenticate(token)
		if err != nil {
			// Bad signature, expiry and deleted users all look the same to the caller
			apierrors.Unauthorized(c, "Token is invalid")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
