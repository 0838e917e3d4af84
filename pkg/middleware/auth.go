package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/foodrun/pkg/auth"
	"github.com/shashiranjanraj/foodrun/pkg/response"
)

type claimsKey struct{}

// Auth validates the Bearer token and stores the claims in the request
// context for handlers to read via ClaimsFromCtx.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.Replace(r.Header.Get("Authorization"), "Bearer ", "", 1)

		if token == "" {
			response.Unauthorized(w, "Not authenticated")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the claims stored by Auth, or nil.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}
