package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/triage-assistant/pkg/auth"
	apperrors "github.com/jwalitptl/triage-assistant/pkg/errors"
)

const ContextStaffID = "staff_id"

type AuthMiddleware struct {
	tokens auth.JWTService
}

func NewAuthMiddleware(tokens auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token and sets the staff ID in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			_ = c.Error(apperrors.Unauthorized(errors.New("missing authorization header")))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			_ = c.Error(apperrors.Unauthorized(errors.New("invalid authorization format")))
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(apperrors.Unauthorized(err))
			c.Abort()
			return
		}

		c.Set(ContextStaffID, claims.Subject)
		c.Next()
	}
}
