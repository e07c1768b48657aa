package middleware

import (
	"net/http"

	ierr "disfactory.tw/backoffice/pkg/errors"
	"disfactory.tw/backoffice/utils"
)

// RequirePermission checks the staff token against the permission the
// request needs. required derives it from the request, usually from route vars.
func RequirePermission(required func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				utils.WriteError(w, ierr.NewError("unauthorized").Mark(ierr.ErrUnauthenticated))
				return
			}

			permission := required(r)
			if !utils.HasPermission(claims.Permissions, permission) {
				utils.WriteError(w, ierr.NewErrorf("missing permission %s", permission).Mark(ierr.ErrPermissionDenied))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
