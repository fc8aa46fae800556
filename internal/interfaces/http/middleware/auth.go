package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	domainidentity "github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware
const (
	AuthUserKey   = "auth_user"
	AuthClaimsKey = "auth_claims"

	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Auth returns middleware that authenticates requests with a bearer
// token. The resolver validates the token, checks the blacklist and
// loads the live user record, so role and approval checks downstream
// always see current state.
func Auth(resolver *identityapp.Resolver, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		user, claims, err := resolver.ResolveUser(c.Request.Context(), token)
		if err != nil {
			logger.Debug("token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			code, message := authErrorCode(err)
			abortUnauthorized(c, code, message)
			return
		}

		c.Set(AuthUserKey, user)
		c.Set(AuthClaimsKey, claims)
		c.Next()
	}
}

// RequireRoles returns middleware that rejects authenticated users
// whose role is not in the allowed set. It must run after Auth.
func RequireRoles(roles ...domainidentity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions"))
	}
}

// CurrentUser returns the authenticated user, or nil outside Auth
func CurrentUser(c *gin.Context) *domainidentity.User {
	if v, ok := c.Get(AuthUserKey); ok {
		if user, ok := v.(*domainidentity.User); ok {
			return user
		}
	}
	return nil
}

// CurrentClaims returns the validated token claims, or nil outside Auth
func CurrentClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(AuthClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// CurrentUserID returns the authenticated user's id, or uuid.Nil
func CurrentUserID(c *gin.Context) uuid.UUID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, BearerPrefix)
}

func authErrorCode(err error) (string, string) {
	switch err {
	case auth.ErrExpiredToken:
		return "TOKEN_EXPIRED", "Token has expired"
	case auth.ErrTokenBlacklisted:
		return "TOKEN_REVOKED", "Token has been revoked"
	case auth.ErrTokenNotYetValid:
		return "INVALID_TOKEN", "Token is not yet valid"
	case identityapp.ErrUnknownSubject:
		return dto.ErrCodeUnauthorized, "Authentication required"
	default:
		return "INVALID_TOKEN", "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}
