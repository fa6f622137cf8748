package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userSelect = `
	SELECT u.id, u.employee_id, u.username, u.password_hash, u.role, u.created_at, u.updated_at,
		   NULLIF(TRIM(e.first_name || ' ' || e.last_name), '') AS employee_name
	FROM users u
	LEFT JOIN employees e ON e.id = u.employee_id
`

func (r *userRepositoryImpl) get(ctx context.Context, where string, arg string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	var u user.User
	err := q.QueryRow(ctx, userSelect+where, arg).Scan(
		&u.ID, &u.EmployeeID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		&u.EmployeeName,
	)
	if err != nil {
		if isNotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.get(ctx, " WHERE u.id = $1", id)
}

func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.get(ctx, " WHERE u.username = $1", username)
}

func (r *userRepositoryImpl) GetLinkedEmployeeID(ctx context.Context, userID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id
		FROM employees e
		JOIN users u ON u.employee_id = e.id
		WHERE u.id = $1
	`
	var employeeID string
	if err := q.QueryRow(ctx, query, userID).Scan(&employeeID); err != nil {
		if isNotFound(err) {
			return "", user.ErrUserNotFound
		}
		return "", err
	}
	return employeeID, nil
}
