package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/token"
)

const (
	LocalUserId = "user_id"
	LocalClaims = "claims"
)

// RequireAuth verifies the bearer token and stores the claims on the
// request context. Expired and tampered tokens get the same answer.
func RequireAuth(issuer *token.Issuer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return apperr.Authentication("missing or malformed authorization header")
		}

		claims, err := issuer.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return err
		}

		ctx.Locals(LocalUserId, claims.UserId)
		ctx.Locals(LocalClaims, claims)
		return ctx.Next()
	}
}

// RequireRole allows the request through only when the authenticated
// user's role is in the allow list. Must run after RequireAuth.
func RequireRole(roles ...entity.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, ok := ctx.Locals(LocalClaims).(*token.Claims)
		if !ok {
			return apperr.Authentication("authentication required")
		}
		for _, role := range roles {
			if claims.Role == role {
				return ctx.Next()
			}
		}
		return apperr.Authorization("insufficient role for this operation")
	}
}

// AuthUserId reads the authenticated user id set by RequireAuth.
func AuthUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, ok := ctx.Locals(LocalUserId).(uuid.UUID)
	if !ok {
		return uuid.Nil, apperr.Authentication("authentication required")
	}
	return id, nil
}

// AuthClaims reads the full claims set by RequireAuth.
func AuthClaims(ctx *fiber.Ctx) (*token.Claims, error) {
	claims, ok := ctx.Locals(LocalClaims).(*token.Claims)
	if !ok {
		return nil, apperr.Authentication("authentication required")
	}
	return claims, nil
}
