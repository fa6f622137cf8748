package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
)

// RequireEmployee rejects principals whose account is not linked to an employee.
// Self-service endpoints act on that employee.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := user.PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrPrincipalMissing)
			return
		}

		if !principal.HasEmployee() {
			response.HandleError(w, user.ErrNoLinkedEmployee)
			return
		}

		next.ServeHTTP(w, r)
	})
}
