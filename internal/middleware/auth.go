package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizdeck-dev/quizdeck/internal/auth"
	"github.com/quizdeck-dev/quizdeck/internal/permissions"
	"github.com/quizdeck-dev/quizdeck/internal/response"
)

const contextClaimsKey = "claims"

// RequireAuth extracts and verifies the bearer token. A missing token is
// 401, a token that fails verification is 403.
func RequireAuth(authService *auth.Service) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		parts := strings.SplitN(authHeader, " ", 2)

		if authHeader == "" || len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Fail(ctx, http.StatusUnauthorized, "Without token")
			ctx.Abort()
			return
		}

		claims, err := authService.VerifyToken(parts[1])

		if err != nil {
			response.Fail(ctx, http.StatusForbidden, "Invalid Token")
			ctx.Abort()
			return
		}

		ctx.Set(contextClaimsKey, claims)
		ctx.Next()
	}
}

// RequirePermission is the coarse per-endpoint capability gate. It runs
// after RequireAuth and checks the flags carried by the token, not the
// database; the finer ownership check happens inside the handler.
func RequirePermission(required permissions.Set) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := CurrentClaims(ctx)

		if err != nil || !claims.Permissions.Has(required) {
			response.Fail(ctx, http.StatusForbidden, "You don't have the required permissions")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

// CurrentClaims returns the verified token claims RequireAuth stored for
// this request.
func CurrentClaims(ctx *gin.Context) (*auth.Claims, error) {
	value, exists := ctx.Get(contextClaimsKey)

	if !exists {
		return nil, errors.New("user not authenticated")
	}

	claims, ok := value.(*auth.Claims)

	if !ok {
		return nil, errors.New("invalid claims type in context")
	}

	return claims, nil
}
