package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"localmart-be/internal/auth"
	"localmart-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, wantUserID uint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantUserID != 0 {
			id, ok := utils.GetUserIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, wantUserID, id)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("MissingToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/orders", nil)

		RequireAuth(okHandler(t, 0)).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/orders", nil)
		r.Header.Set("Authorization", "Bearer nope")

		RequireAuth(okHandler(t, 0)).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := auth.GenerateJWT(7, "v@example.com", "vendor")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/orders", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		RequireAuth(okHandler(t, 7)).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestWithIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("SetsUserForDownstream", func(t *testing.T) {
		token, err := auth.GenerateJWT(7, "v@example.com", "vendor")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/products", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		WithIdentity(okHandler(t, 7)).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("InvalidTokenIsAnonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/products", nil)
		r.Header.Set("Authorization", "Bearer nope")

		WithIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("WrongRole", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/vendor/stats", nil)
		ctx := utils.SetUserContext(r.Context(), 7, "c@example.com", utils.RoleCustomer)

		RequireRole(utils.RoleVendor)(okHandler(t, 0)).ServeHTTP(rec, r.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("MatchingRole", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/vendor/stats", nil)
		ctx := utils.SetUserContext(r.Context(), 7, "v@example.com", utils.RoleVendor)

		RequireRole(utils.RoleVendor)(okHandler(t, 0)).ServeHTTP(rec, r.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimitMiddleware(okHandler(t, 0))

	// The strict tier allows a burst of 5 from one client.
	var lastCode int
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/auth/login", nil)
		r.RemoteAddr = "203.0.113.9:1234"
		handler.ServeHTTP(rec, r)
		lastCode = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, lastCode)

	// A different client is unaffected.
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "203.0.113.10:1234"
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_AuthenticatedRequestsUsePerUserBucket(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.GenerateJWT(31, "v@example.com", "vendor")
	require.NoError(t, err)

	// The identity middleware runs before the limiter, as in the router.
	handler := WithIdentity(RateLimitMiddleware(okHandler(t, 0)))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/products", nil)
	r.RemoteAddr = "203.0.113.20:1234"
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	mu.Lock()
	_, perUser := visitors["user:31:general"]
	_, perIP := visitors["ip:203.0.113.20:general"]
	mu.Unlock()

	assert.True(t, perUser)
	assert.False(t, perIP)
}
