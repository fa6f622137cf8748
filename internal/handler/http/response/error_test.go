package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", validator.ValidationErrors{{Field: "id", Message: "id is required"}}, http.StatusUnprocessableEntity, "Validation failed"},
		{"invalid range", fmt.Errorf("%w: end_date must not be before start_date", validator.ErrInvalidRange), http.StatusBadRequest, "end must be after start: end_date must not be before start_date"},
		{"quota", fmt.Errorf("%w: requested 21 days exceeds maximum 20 days", leave.ErrQuotaExceeded), http.StatusBadRequest, ""},
		{"unknown employee", employee.ErrUnknownEmployee, http.StatusBadRequest, "invalid employee"},
		{"unknown approver", approval.ErrUnknownApprover, http.StatusBadRequest, ""},
		{"not found", fmt.Errorf("get: %w", leave.ErrLeaveNotFound), http.StatusNotFound, "Leave not found"},
		{"forbidden", approval.ErrForbidden, http.StatusForbidden, ""},
		{"overlap", leave.ErrOverlappingLeave, http.StatusConflict, "overlapping leave request exists"},
		{"duplicate", attendance.ErrDuplicatePendingRequest, http.StatusConflict, ""},
		{"not pending", approval.ErrInvalidOrNotPending, http.StatusConflict, ""},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid username or password"},
		{"store failure", errors.New("pq: connection reset"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body.Error)
			}
		})
	}
}
