package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	ierr "disfactory.tw/backoffice/pkg/errors"
	"disfactory.tw/backoffice/utils"
)

// Claims are the payload of a back-office staff token.
type Claims struct {
	StaffID     string   `json:"staffId"`
	Name        string   `json:"name"`
	IsStaff     bool     `json:"isStaff"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// unexported type prevents collisions in context
type ctxKey int

const (
	staffClaimsKey ctxKey = iota
	requestInfoKey
)

// Authenticator issues and verifies HS256 staff tokens.
type Authenticator struct {
	key []byte
	ttl time.Duration
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{key: []byte(secret), ttl: 12 * time.Hour}
}

// GenerateToken creates a signed staff token.
func (a *Authenticator) GenerateToken(staffID, name string, permissions []string) (string, error) {
	now := time.Now()
	claims := Claims{
		StaffID:     staffID,
		Name:        name,
		IsStaff:     true,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.key)
}

func (a *Authenticator) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ierr.NewError("invalid or expired token").Mark(ierr.ErrUnauthenticated)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ierr.NewError("invalid token claims").Mark(ierr.ErrUnauthenticated)
	}
	if !claims.IsStaff {
		return nil, ierr.NewError("staff access required").Mark(ierr.ErrPermissionDenied)
	}
	return claims, nil
}

// Middleware validates the bearer token and stashes the Claims in ctx.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			utils.WriteError(w, ierr.NewError("missing Authorization header").Mark(ierr.ErrUnauthenticated))
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.WriteError(w, ierr.NewError("invalid auth header").Mark(ierr.ErrUnauthenticated))
			return
		}

		claims, err := a.parse(parts[1])
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		noteStaff(r, claims.StaffID)
		ctx := context.WithValue(r.Context(), staffClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaims pulls the *Claims out of the request context (or nil)
func GetClaims(r *http.Request) *Claims {
	if c, ok := r.Context().Value(staffClaimsKey).(*Claims); ok {
		return c
	}
	return nil
}

func GetStaffID(r *http.Request) string {
	if c := GetClaims(r); c != nil {
		return c.StaffID
	}
	return ""
}
