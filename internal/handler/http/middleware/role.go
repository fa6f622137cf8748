package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
)

// Authorizer answers capability table lookups.
type Authorizer interface {
	Allowed(role user.Role, permission user.Permission) bool
}

// RequirePermission checks if user has specific permission
func RequirePermission(az Authorizer, permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := user.PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrPrincipalMissing)
				return
			}

			if !az.Allowed(principal.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, principal.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
