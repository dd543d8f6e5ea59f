package middleware

import (
	"context"
	"strings"

	"apistarter/internal/domain"
	"apistarter/internal/pkg/apierror"
	"apistarter/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const userContextKey = "current_user"

// TokenVerifier is implemented by the auth service; the middleware never
// inspects tokens itself.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (*domain.User, error)
}

// Authenticate requires a valid bearer token and attaches the resolved
// user to the request context. Failures go through the central responder.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		user, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		setCurrentUser(c, user)
		c.Next()
	}
}

// OptionalAuth attaches a user when a valid bearer token is present and
// silently proceeds anonymous otherwise. For routes that render
// differently for known vs anonymous callers.
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err == nil {
			if user, verr := verifier.VerifyToken(c.Request.Context(), token); verr == nil {
				setCurrentUser(c, user)
			}
		}
		c.Next()
	}
}

// RequireAnyRole must run after Authenticate. Any one of the required
// role names qualifies.
func RequireAnyRole(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.AbortWithError(c, apierror.Unauthorized("Authentication required"))
			return
		}

		if !user.HasAnyRole(required...) {
			response.AbortWithError(c, apierror.Unauthorized("Insufficient permissions"))
			return
		}

		c.Next()
	}
}

// CurrentUser returns the identity attached by Authenticate or
// OptionalAuth, if any.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

func setCurrentUser(c *gin.Context, user *domain.User) {
	c.Set(userContextKey, user)
	c.Set("user_id", user.ID)
	c.Set("roles", user.RoleNames())
}

func bearerToken(c *gin.Context) (string, error) {
	h := c.GetHeader("Authorization")
	if h == "" {
		return "", apierror.Unauthorized("Missing Authorization header")
	}
	if !strings.HasPrefix(h, "Bearer ") {
		return "", apierror.Unauthorized("Invalid Authorization header")
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if token == "" {
		return "", apierror.Unauthorized("Empty token")
	}
	return token, nil
}
