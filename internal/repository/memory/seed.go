package memory

import (
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Reference data ids match the relational seed migration.
const (
	LeaveTypeAnnualID = "01900000-0000-7000-8000-000000000001"
	LeaveTypeSickID   = "01900000-0000-7000-8000-000000000002"
	LeaveTypeUnpaidID = "01900000-0000-7000-8000-000000000003"

	RequestTypeWFHID            = "01900000-0000-7000-8000-000000000101"
	RequestTypeLateArrivalID    = "01900000-0000-7000-8000-000000000102"
	RequestTypeEarlyDepartureID = "01900000-0000-7000-8000-000000000103"
)

// SeedReferenceData loads the leave and attendance request types.
func (s *Store) SeedReferenceData() error {
	annual, sick := 20, 14
	leaveTypes := []leave.LeaveType{
		{ID: LeaveTypeAnnualID, Name: "Annual", MaxDaysPerYear: &annual, IsActive: true},
		{ID: LeaveTypeSickID, Name: "Sick", MaxDaysPerYear: &sick, IsActive: true},
		{ID: LeaveTypeUnpaidID, Name: "Unpaid", IsActive: true},
	}
	for _, t := range leaveTypes {
		if _, err := s.AddLeaveType(t); err != nil {
			return err
		}
	}

	eight, four := decimal.NewFromInt(8), decimal.NewFromInt(4)
	requestTypes := []attendance.AttendanceRequestType{
		{ID: RequestTypeWFHID, Name: "Work From Home", MaxHoursPerRequest: &eight, RequiresApproval: true, IsActive: true},
		{ID: RequestTypeLateArrivalID, Name: "Late Arrival", MaxHoursPerRequest: &four, RequiresApproval: true, IsActive: true},
		{ID: RequestTypeEarlyDepartureID, Name: "Early Departure", MaxHoursPerRequest: &four, RequiresApproval: true, IsActive: true},
	}
	for _, t := range requestTypes {
		if _, err := s.AddRequestType(t); err != nil {
			return err
		}
	}
	return nil
}

// SeedDemo loads reference data plus one account per role, all sharing password.
func (s *Store) SeedDemo(password string) error {
	if err := s.SeedReferenceData(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	accounts := []struct {
		username  string
		role      user.Role
		firstName string
		lastName  string
	}{
		{"admin", user.RoleAdmin, "Ada", "Admin"},
		{"manager", user.RoleManager, "Mona", "Manager"},
		{"employee", user.RoleEmployee, "Eli", "Employee"},
	}
	for _, a := range accounts {
		emp, err := s.AddEmployee(employee.Employee{FirstName: a.firstName, LastName: a.lastName})
		if err != nil {
			return err
		}
		if _, err := s.AddUser(user.User{
			Username:     a.username,
			PasswordHash: string(hash),
			Role:         a.role,
			EmployeeID:   &emp.ID,
		}); err != nil {
			return err
		}
	}

	// An account with no linked employee; it can authenticate but never approve.
	_, err = s.AddUser(user.User{Username: "auditor", PasswordHash: string(hash), Role: user.RoleUser})
	return err
}
