package middleware

import (
	"net/http"

	"localmart-be/internal/auth"
	"localmart-be/internal/utils"
)

// WithIdentity resolves the caller's identity from the access token when one
// is present and stores it in the request context. It never rejects; routes
// that need authentication still go through RequireAuth. Mounted at the
// router root so the limiter and request log can key on the user.
func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenStr := auth.ExtractAccessToken(r); tokenStr != "" {
			if claims, err := auth.ParseJWT(tokenStr); err == nil {
				ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a valid access token and stores the
// authenticated identity in the request context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseJWT(tokenStr)
		if err != nil {
			utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole guards a route behind a specific role. Must run after RequireAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if utils.GetUserRoleFromContext(r.Context()) != role {
				utils.WriteJSONError(w, "access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
