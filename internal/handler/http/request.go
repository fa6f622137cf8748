package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

func principalFrom(w http.ResponseWriter, r *http.Request) (user.Principal, bool) {
	p, ok := user.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrPrincipalMissing)
		return user.Principal{}, false
	}
	return p, true
}

// ownEmployee returns the principal's employee id or writes a 403 when the
// account has none.
func ownEmployee(w http.ResponseWriter, p user.Principal) (string, bool) {
	if !p.HasEmployee() {
		response.HandleError(w, user.ErrNoLinkedEmployee)
		return "", false
	}
	return p.EmployeeID, true
}

func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid ID format", nil)
		return "", false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// queryInt returns 0 for a missing parameter, letting the filter apply its default,
// and -1 for a malformed one so validation rejects it.
func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
