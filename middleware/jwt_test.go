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

const testSecret = "test-secret-0123456789"

func protected(a *Authenticator, permission string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetStaffID(r)))
	})
	return a.Middleware(RequirePermission(func(*http.Request) string { return permission })(ok))
}

func TestMiddleware(t *testing.T) {
	a := NewAuthenticator(testSecret)
	curator, err := a.GenerateToken("staff-1", "Curator", []string{"*:view", "recycled_factory:*"})
	require.NoError(t, err)

	nonStaff, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		StaffID: "volunteer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	otherKey, err := NewAuthenticator("another-secret-0123456").GenerateToken("staff-2", "x", []string{"*"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		permission string
		wantStatus int
	}{
		{"missing header", "", "factory:view", http.StatusUnauthorized},
		{"not bearer", "Basic abc", "factory:view", http.StatusUnauthorized},
		{"wrong key", "Bearer " + otherKey, "factory:view", http.StatusUnauthorized},
		{"not staff", "Bearer " + nonStaff, "factory:view", http.StatusForbidden},
		{"missing permission", "Bearer " + curator, "factory:export_as_csv", http.StatusForbidden},
		{"view allowed", "Bearer " + curator, "factory:view", http.StatusOK},
		{"restore allowed", "Bearer " + curator, "recycled_factory:restore", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/factory", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected(a, tt.permission).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "staff-1", rec.Body.String())
			}
		})
	}
}
