package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.date, a.check_in, a.check_out, a.work_minutes, a.status,
		   a.created_at, a.updated_at,
		   TRIM(e.first_name || ' ' || e.last_name) AS employee_name
	FROM attendance a
	JOIN employees e ON e.id = a.employee_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckIn, &att.CheckOut, &att.WorkMinutes, &att.Status,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName,
	)
	return att, err
}

func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendance (id, employee_id, date, check_in, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		id.String(), newAttendance.EmployeeID, newAttendance.Date, newAttendance.CheckIn, newAttendance.Status,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		if isPgError(err, pgerrcode.UniqueViolation) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, err
	}
	return newAttendance, nil
}

func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
	if err != nil {
		if isNotFound(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}
	return att, nil
}

func (a *attendanceRepository) ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, a.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attendance WHERE employee_id = $1 AND date = $2)`,
		employeeID, date,
	).Scan(&exists)
	return exists, err
}

func attendanceWhere(filter attendance.AttendanceFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		w.add("a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		w.add("a.date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		w.add("a.date <= $%d::date", *filter.EndDate)
	}
	return w
}

func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	w := attendanceWhere(filter)
	limit, args := w.page(filter.Page, filter.Limit)
	query := fmt.Sprintf("%s %s ORDER BY a.date DESC, a.check_in DESC %s", attendanceSelect, w, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		if isPgError(err, pgerrcode.InvalidTextRepresentation) {
			return []attendance.Attendance{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

func (a *attendanceRepository) Count(ctx context.Context, filter attendance.AttendanceFilter) (int64, error) {
	q := GetQuerier(ctx, a.db)

	w := attendanceWhere(filter)
	var total int64
	err := q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM attendance a %s", w), w.args...).Scan(&total)
	if err != nil {
		if isPgError(err, pgerrcode.InvalidTextRepresentation) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}

func (a *attendanceRepository) CheckOut(ctx context.Context, id string, at time.Time, workMinutes int) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance
		SET check_out = $1, work_minutes = $2, updated_at = NOW()
		WHERE id = $3 AND check_out IS NULL
	`
	commandTag, err := q.Exec(ctx, query, at, workMinutes, id)
	if err != nil {
		if isNotFound(err) {
			return attendance.ErrAttendanceNotFound
		}
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAlreadyCheckedOut
	}
	return nil
}
