package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
)

type attendanceRequestTypeRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRequestTypeRepository(db *database.DB) attendance.AttendanceRequestTypeRepository {
	return &attendanceRequestTypeRepositoryImpl{db: db}
}

func (r *attendanceRequestTypeRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceRequestType, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, name, description, max_hours_per_request, requires_approval, is_active, created_at
		FROM attendance_request_types
		WHERE id = $1
	`
	var t attendance.AttendanceRequestType
	err := q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.MaxHoursPerRequest, &t.RequiresApproval, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		if isNotFound(err) {
			return attendance.AttendanceRequestType{}, attendance.ErrRequestTypeNotFound
		}
		return attendance.AttendanceRequestType{}, err
	}
	return t, nil
}

func (r *attendanceRequestTypeRepositoryImpl) ListActive(ctx context.Context) ([]attendance.AttendanceRequestType, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, name, description, max_hours_per_request, requires_approval, is_active, created_at
		FROM attendance_request_types
		WHERE is_active = TRUE
		ORDER BY name
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []attendance.AttendanceRequestType{}
	for rows.Next() {
		var t attendance.AttendanceRequestType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.MaxHoursPerRequest, &t.RequiresApproval, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
