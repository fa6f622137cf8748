package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
)

// AddEmployee stores e, assigning an id and timestamps when missing.
func (s *Store) AddEmployee(e employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		id, err := newID()
		if err != nil {
			return employee.Employee{}, err
		}
		e.ID = id
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	s.employees[e.ID] = e
	return e, nil
}

// AddUser stores u; PasswordHash must already be a bcrypt hash.
func (s *Store) AddUser(u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		id, err := newID()
		if err != nil {
			return user.User{}, err
		}
		u.ID = id
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.users[u.ID] = u
	return u, nil
}

type employeeRepository struct {
	*Store
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{Store: s}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	defer r.lock(ctx)()

	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// LockByID relies on the store-wide lock held by WithinTransaction.
func (r *employeeRepository) LockByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.GetByID(ctx, id)
}

type userRepository struct {
	*Store
}

func (s *Store) Users() user.UserRepository {
	return &userRepository{Store: s}
}

func (r *userRepository) withEmployeeName(u user.User) user.User {
	if u.EmployeeID != nil {
		if e, ok := r.employees[*u.EmployeeID]; ok {
			name := e.FullName()
			u.EmployeeName = &name
		}
	}
	return u
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	defer r.lock(ctx)()

	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.withEmployeeName(u), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	defer r.lock(ctx)()

	for _, u := range r.users {
		if u.Username == username {
			return r.withEmployeeName(u), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetLinkedEmployeeID(ctx context.Context, userID string) (string, error) {
	defer r.lock(ctx)()

	u, ok := r.users[userID]
	if !ok || u.EmployeeID == nil {
		return "", user.ErrUserNotFound
	}
	if _, ok := r.employees[*u.EmployeeID]; !ok {
		return "", user.ErrUserNotFound
	}
	return *u.EmployeeID, nil
}
