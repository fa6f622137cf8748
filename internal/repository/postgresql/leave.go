package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveSelect = `
	SELECT l.id, l.employee_id, l.leave_type_id, l.start_date, l.end_date,
		   l.reason, l.status, l.approved_by, l.created_at, l.updated_at,
		   TRIM(e.first_name || ' ' || e.last_name) AS employee_name,
		   lt.name AS leave_type_name,
		   NULLIF(TRIM(a.first_name || ' ' || a.last_name), '') AS approver_name
	FROM leaves l
	JOIN employees e ON e.id = l.employee_id
	JOIN leave_types lt ON lt.id = l.leave_type_id
	LEFT JOIN employees a ON a.id = l.approved_by
`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.LeaveTypeID, &l.StartDate, &l.EndDate,
		&l.Reason, &l.Status, &l.ApprovedBy, &l.CreatedAt, &l.UpdatedAt,
		&l.EmployeeName, &l.LeaveTypeName, &l.ApproverName,
	)
	return l, err
}

func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Leave{}, fmt.Errorf("generate leave id: %w", err)
	}

	query := `
		INSERT INTO leaves (
			id, employee_id, leave_type_id, start_date, end_date, reason, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		id.String(), l.EmployeeID, l.LeaveTypeID, l.StartDate, l.EndDate, l.Reason, l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return leave.Leave{}, err
	}

	return l, nil
}

func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, leaveSelect+" WHERE l.id = $1", id))
	if err != nil {
		if isNotFound(err) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, err
	}
	return l, nil
}

func leaveWhere(filter leave.LeaveFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		w.add("l.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.LeaveTypeID != nil && *filter.LeaveTypeID != "" {
		w.add("l.leave_type_id = $%d", *filter.LeaveTypeID)
	}
	if filter.Status != nil && *filter.Status != "" {
		w.add("l.status = $%d", *filter.Status)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		w.add("l.start_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		w.add("l.end_date <= $%d::date", *filter.EndDate)
	}
	return w
}

func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	w := leaveWhere(filter)
	limit, args := w.page(filter.Page, filter.Limit)
	query := fmt.Sprintf("%s %s ORDER BY l.created_at DESC, l.id DESC %s", leaveSelect, w, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		if isPgError(err, pgerrcode.InvalidTextRepresentation) {
			return []leave.Leave{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	leaves := []leave.Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

func (r *leaveRepositoryImpl) Count(ctx context.Context, filter leave.LeaveFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	w := leaveWhere(filter)
	var total int64
	err := q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM leaves l %s", w), w.args...).Scan(&total)
	if err != nil {
		if isPgError(err, pgerrcode.InvalidTextRepresentation) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}

func (r *leaveRepositoryImpl) Update(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET leave_type_id = $1, start_date = $2, end_date = $3, reason = $4, updated_at = NOW()
		WHERE id = $5
	`
	commandTag, err := q.Exec(ctx, query, l.LeaveTypeID, l.StartDate, l.EndDate, l.Reason, l.ID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

func (r *leaveRepositoryImpl) UpdateStatus(ctx context.Context, id string, status approval.Status, approvedBy string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, approved_by = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	commandTag, err := q.Exec(ctx, query, status, approvedBy, id, approval.StatusPending)
	if err != nil {
		if isPgError(err, pgerrcode.ExclusionViolation) {
			return leave.ErrOverlappingLeave
		}
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

func (r *leaveRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM leaves WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return leave.ErrLeaveNotFound
		}
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

func (r *leaveRepositoryImpl) HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leaves
			WHERE employee_id = $1
			  AND status = $2
			  AND start_date <= $4
			  AND end_date >= $3
			  AND ($5 = '' OR id::text <> $5)
		)
	`
	var exists bool
	err := q.QueryRow(ctx, query, employeeID, approval.StatusApproved, start, end, excludeID).Scan(&exists)
	return exists, err
}

func (r *leaveRepositoryImpl) HasApprovedCovering(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leaves
			WHERE employee_id = $1 AND status = $2 AND $3 BETWEEN start_date AND end_date
		)
	`
	var exists bool
	err := q.QueryRow(ctx, query, employeeID, approval.StatusApproved, date).Scan(&exists)
	return exists, err
}
