package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
)

type attendanceRequestRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRequestRepository(db *database.DB) attendance.AttendanceRequestRepository {
	return &attendanceRequestRepositoryImpl{db: db}
}

const attendanceRequestSelect = `
	SELECT ar.id, ar.employee_id, ar.request_type_id, ar.request_date,
		   ar.start_time, ar.end_time, ar.total_hours, ar.reason, ar.status, ar.approved_by,
		   ar.created_at, ar.updated_at,
		   TRIM(e.first_name || ' ' || e.last_name) AS employee_name,
		   t.name AS request_type_name,
		   NULLIF(TRIM(a.first_name || ' ' || a.last_name), '') AS approver_name
	FROM attendance_requests ar
	JOIN employees e ON e.id = ar.employee_id
	JOIN attendance_request_types t ON t.id = ar.request_type_id
	LEFT JOIN employees a ON a.id = ar.approved_by
`

func scanAttendanceRequest(row pgx.Row) (attendance.AttendanceRequest, error) {
	var ar attendance.AttendanceRequest
	err := row.Scan(
		&ar.ID, &ar.EmployeeID, &ar.RequestTypeID, &ar.RequestDate,
		&ar.StartTime, &ar.EndTime, &ar.TotalHours, &ar.Reason, &ar.Status, &ar.ApprovedBy,
		&ar.CreatedAt, &ar.UpdatedAt,
		&ar.EmployeeName, &ar.RequestTypeName, &ar.ApproverName,
	)
	return ar, err
}

func (r *attendanceRequestRepositoryImpl) Create(ctx context.Context, ar attendance.AttendanceRequest) (attendance.AttendanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceRequest{}, fmt.Errorf("generate attendance request id: %w", err)
	}

	query := `
		INSERT INTO attendance_requests (
			id, employee_id, request_type_id, request_date,
			start_time, end_time, total_hours, reason, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		id.String(), ar.EmployeeID, ar.RequestTypeID, ar.RequestDate,
		ar.StartTime, ar.EndTime, ar.TotalHours, ar.Reason, ar.Status,
	).Scan(&ar.ID, &ar.CreatedAt, &ar.UpdatedAt)
	if err != nil {
		if isPgError(err, pgerrcode.UniqueViolation) {
			return attendance.AttendanceRequest{}, attendance.ErrDuplicatePendingRequest
		}
		return attendance.AttendanceRequest{}, err
	}

	return ar, nil
}

func (r *attendanceRequestRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	ar, err := scanAttendanceRequest(q.QueryRow(ctx, attendanceRequestSelect+" WHERE ar.id = $1", id))
	if err != nil {
		if isNotFound(err) {
			return attendance.AttendanceRequest{}, attendance.ErrRequestNotFound
		}
		return attendance.AttendanceRequest{}, err
	}
	return ar, nil
}

func attendanceRequestWhere(filter attendance.AttendanceRequestFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		w.add("ar.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.RequestTypeID != nil && *filter.RequestTypeID != "" {
		w.add("ar.request_type_id = $%d", *filter.RequestTypeID)
	}
	if filter.Status != nil && *filter.Status != "" {
		w.add("ar.status = $%d", *filter.Status)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		w.add("ar.request_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		w.add("ar.request_date <= $%d::date", *filter.EndDate)
	}
	return w
}

func (r *attendanceRequestRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceRequestFilter) ([]attendance.AttendanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	w := attendanceRequestWhere(filter)
	limit, args := w.page(filter.Page, filter.Limit)
	query := fmt.Sprintf("%s %s ORDER BY ar.created_at DESC, ar.id DESC %s", attendanceRequestSelect, w, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		if isPgError(err, pgerrcode.InvalidTextRepresentation) {
			return []attendance.AttendanceRequest{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	requests := []attendance.AttendanceRequest{}
	for rows.Next() {
		ar, err := scanAttendanceRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, ar)
	}
	return requests, rows.Err()
}

func (r *attendanceRequestRepositoryImpl) Count(ctx context.Context, filter attendance.AttendanceRequestFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	w := attendanceRequestWhere(filter)
	var total int64
	err := q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM attendance_requests ar %s", w), w.args...).Scan(&total)
	if err != nil {
		if isPgError(err, pgerrcode.InvalidTextRepresentation) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}

func (r *attendanceRequestRepositoryImpl) Update(ctx context.Context, ar attendance.AttendanceRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_requests
		SET request_type_id = $1, request_date = $2, start_time = $3, end_time = $4,
			total_hours = $5, reason = $6, updated_at = NOW()
		WHERE id = $7
	`
	commandTag, err := q.Exec(ctx, query,
		ar.RequestTypeID, ar.RequestDate, ar.StartTime, ar.EndTime, ar.TotalHours, ar.Reason, ar.ID,
	)
	if err != nil {
		if isPgError(err, pgerrcode.UniqueViolation) {
			return attendance.ErrDuplicatePendingRequest
		}
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrRequestNotFound
	}
	return nil
}

func (r *attendanceRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status approval.Status, approvedBy string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_requests
		SET status = $1, approved_by = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	commandTag, err := q.Exec(ctx, query, status, approvedBy, id, approval.StatusPending)
	if err != nil {
		if isNotFound(err) {
			return approval.ErrInvalidOrNotPending
		}
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return approval.ErrInvalidOrNotPending
	}
	return nil
}

func (r *attendanceRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM attendance_requests WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return attendance.ErrRequestNotFound
		}
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrRequestNotFound
	}
	return nil
}

func (r *attendanceRequestRepositoryImpl) HasPendingOnDate(ctx context.Context, employeeID string, date time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_requests
			WHERE employee_id = $1
			  AND request_date = $2
			  AND status = $3
			  AND ($4 = '' OR id::text <> $4)
		)
	`
	var exists bool
	err := q.QueryRow(ctx, query, employeeID, date, approval.StatusPending, excludeID).Scan(&exists)
	return exists, err
}
