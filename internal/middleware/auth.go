package middleware

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/apperror"
	"anoa.com/jornalufc/pkg/response"
	"github.com/gin-gonic/gin"
)

// TokenResolver turns a bearer access token into an active user.
type TokenResolver interface {
	ResolveAccessToken(ctx context.Context, accessToken string) (*entity.User, error)
}

type AuthMiddleware struct {
	resolver TokenResolver
}

func NewAuthMiddleware(resolver TokenResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.ResponseError(c, fmt.Errorf("authorization required: %w", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		user, err := m.resolver.ResolveAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		c.Set(response.CurrentUserKey, user)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := response.GetCurrentUser(c)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		response.ResponseError(c, fmt.Errorf("role %s is not allowed here: %w", user.Role, apperror.ErrForbidden))
		c.Abort()
	}
}
