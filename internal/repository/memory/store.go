// Package memory keeps every repository in process memory. It backs the test
// suites and STORE_DRIVER=memory local runs.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type txKey struct{}

// Store serializes all access with one mutex. WithinTransaction holds it for
// the whole callback, which makes every check-then-write atomic.
type Store struct {
	mu sync.Mutex

	employees    map[string]employee.Employee
	users        map[string]user.User
	leaveTypes   map[string]leave.LeaveType
	leaves       map[string]leave.Leave
	requestTypes map[string]attendance.AttendanceRequestType
	requests     map[string]attendance.AttendanceRequest
	attendance   map[string]attendance.Attendance
}

func NewStore() *Store {
	return &Store{
		employees:    map[string]employee.Employee{},
		users:        map[string]user.User{},
		leaveTypes:   map[string]leave.LeaveType{},
		leaves:       map[string]leave.Leave{},
		requestTypes: map[string]attendance.AttendanceRequestType{},
		requests:     map[string]attendance.AttendanceRequest{},
		attendance:   map[string]attendance.Attendance{},
	}
}

// lock acquires the store mutex unless ctx already runs inside WithinTransaction.
func (s *Store) lock(ctx context.Context) func() {
	if _, ok := ctx.Value(txKey{}).(*Store); ok {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	employees    map[string]employee.Employee
	users        map[string]user.User
	leaveTypes   map[string]leave.LeaveType
	leaves       map[string]leave.Leave
	requestTypes map[string]attendance.AttendanceRequestType
	requests     map[string]attendance.AttendanceRequest
	attendance   map[string]attendance.Attendance
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		employees:    maps.Clone(s.employees),
		users:        maps.Clone(s.users),
		leaveTypes:   maps.Clone(s.leaveTypes),
		leaves:       maps.Clone(s.leaves),
		requestTypes: maps.Clone(s.requestTypes),
		requests:     maps.Clone(s.requests),
		attendance:   maps.Clone(s.attendance),
	}
}

func (s *Store) restore(snap snapshot) {
	s.employees = snap.employees
	s.users = snap.users
	s.leaveTypes = snap.leaveTypes
	s.leaves = snap.leaves
	s.requestTypes = snap.requestTypes
	s.requests = snap.requests
	s.attendance = snap.attendance
}

// WithinTransaction implements database.Transactor. A returned error or panic
// restores the state captured before fn ran.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*Store); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// paginate returns the 1-based page of items.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}

// newestFirst orders by creation time, then id, both descending.
func newestFirst[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}

func (s *Store) employeeName(id string) string {
	if e, ok := s.employees[id]; ok {
		return e.FullName()
	}
	return ""
}

func (s *Store) approverName(id *string) *string {
	if id == nil {
		return nil
	}
	e, ok := s.employees[*id]
	if !ok {
		return nil
	}
	name := e.FullName()
	return &name
}

func matches(filter *string, value string) bool {
	return filter == nil || *filter == "" || *filter == value
}

func onOrAfter(filter *string, date time.Time) bool {
	return filter == nil || *filter == "" || date.Format(validator.DateLayout) >= *filter
}

func onOrBefore(filter *string, date time.Time) bool {
	return filter == nil || *filter == "" || date.Format(validator.DateLayout) <= *filter
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool { return name(items[i]) < name(items[j]) })
}
