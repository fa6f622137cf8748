package leave

import (
	"testing"

	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveType_DayLimit(t *testing.T) {
	twenty := 20
	zero := 0

	assert.Equal(t, 20, LeaveType{MaxDaysPerYear: &twenty}.DayLimit())
	assert.Equal(t, DefaultMaxDaysPerYear, LeaveType{}.DayLimit())
	assert.Equal(t, DefaultMaxDaysPerYear, LeaveType{MaxDaysPerYear: &zero}.DayLimit())
}

func TestLeave_Days(t *testing.T) {
	start, err := validator.ParseDate("2024-01-10")
	require.NoError(t, err)
	end, err := validator.ParseDate("2024-01-15")
	require.NoError(t, err)

	assert.Equal(t, 6, Leave{StartDate: start, EndDate: end}.Days())
}

func TestSubmitLeaveRequest_Validate(t *testing.T) {
	req := SubmitLeaveRequest{LeaveTypeID: "t"}
	err := req.Validate()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "end_date")
	assert.NotContains(t, fields, "reason")
}

func TestLeaveFilter_Validate(t *testing.T) {
	status := "Approved"
	start := "2024/01/01"
	f := LeaveFilter{Status: &status, StartDate: &start}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, validator.DefaultPageLimit, f.Limit)
	assert.Equal(t, "2024-01-01", *f.StartDate)

	bad := "Cancelled"
	f = LeaveFilter{Status: &bad, Limit: 500}
	err := f.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "status")
	assert.Contains(t, verrs.ToMap(), "limit")
}
