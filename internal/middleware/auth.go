package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/constants"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/logger"
	"github.com/yukikurage/project-task-api/internal/services"
)

// ScopeResolver turns a bearer token into the caller's visibility scope.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, accessToken string) (auth.Scope, error)
}

// RequireAuth checks the bearer token and stores the caller's scope in the context
func RequireAuth(resolver ScopeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		scope, err := resolver.ResolveScope(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				apierrors.Unauthorized(c, "Given token not valid for any token type")
				return
			}
			logger.FromContext(c.Request.Context()).Error().Err(err).Msg("failed to resolve scope")
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyScope, scope)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetScope retrieves the caller's scope stored by RequireAuth
func GetScope(c *gin.Context) (auth.Scope, bool) {
	value, exists := c.Get(constants.ContextKeyScope)
	if !exists {
		return auth.Scope{}, false
	}
	scope, ok := value.(auth.Scope)
	return scope, ok
}
