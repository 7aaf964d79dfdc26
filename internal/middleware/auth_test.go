package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": "u1",
		"email":   "user@example.com",
		"role":    "user",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func TestParseToken(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	tokenString := signTestToken(t, testSecret, validClaims())

	claims, ok := ParseToken(tokenString)
	require.True(t, ok)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	tokenString := signTestToken(t, "other-secret", validClaims())

	_, ok := ParseToken(tokenString)
	assert.False(t, ok)
}

func TestParseTokenExpired(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	tokenString := signTestToken(t, testSecret, claims)

	_, ok := ParseToken(tokenString)
	assert.False(t, ok)
}

func TestParseTokenMissingClaims(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	claims := validClaims()
	delete(claims, "role")
	tokenString := signTestToken(t, testSecret, claims)

	_, ok := ParseToken(tokenString)
	assert.False(t, ok)
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r)
		require.True(t, ok)
		assert.Equal(t, "u1", claims.UserID)
		w.WriteHeader(http.StatusOK)
	})

	tokenString := signTestToken(t, testSecret, validClaims())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()

	Auth(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Auth(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", testSecret)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := Auth(RequireRole("admin", "superadmin")(next))

	tests := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"superadmin", http.StatusOK},
		{"user", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			claims := validClaims()
			claims["role"] = tt.role
			tokenString := signTestToken(t, testSecret, claims)

			req := httptest.NewRequest(http.MethodGet, "/api/registrations", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
