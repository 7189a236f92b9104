package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/response"
	"github.com/citadelschools/school-portal/internal/utils"
)

type contextKey string

const ContextKeyClaims contextKey = "claims"

// Authenticate validates the bearer token and stores the identity in the
// request context. Authorization is decided here, not by which screens a
// client chooses to render.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid token format, expected: Bearer <token>")
				return
			}

			claims, err := utils.ValidateAccessToken(parts[1], jwtSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows only the named roles through.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil || claims.Role == "" {
				response.Unauthorized(w, "Missing role in token")
				return
			}

			for _, role := range roles {
				if strings.EqualFold(claims.Role, string(role)) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You do not have access to this resource")
		})
	}
}

// ClaimsFromContext returns the authenticated identity, or nil.
func ClaimsFromContext(ctx context.Context) *model.JWTClaims {
	claims, _ := ctx.Value(ContextKeyClaims).(*model.JWTClaims)
	return claims
}
