package postgresql_test

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/google/uuid"
)

// TestDatabaseSetup wraps a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations.
// It returns nil, nil when the variable is unset.
func NewTestDatabase(ctx context.Context) (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, nil
	}

	if err := database.RunMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables removes every non-reference row.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{"attendance", "attendance_requests", "leaves", "users", "employees"}
	for _, table := range tables {
		if _, err := t.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

// InsertEmployee stores an employee row and returns its id.
func (t *TestDatabaseSetup) InsertEmployee(ctx context.Context, firstName, lastName string) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := t.DB.Exec(ctx,
		`INSERT INTO employees (id, first_name, last_name) VALUES ($1, $2, $3)`,
		id, firstName, lastName,
	)
	return id, err
}

// InsertUser stores a user linked to employeeID when non-empty.
func (t *TestDatabaseSetup) InsertUser(ctx context.Context, username, role, employeeID string) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	var linked *string
	if employeeID != "" {
		linked = &employeeID
	}
	_, err := t.DB.Exec(ctx,
		`INSERT INTO users (id, employee_id, username, password_hash, role) VALUES ($1, $2, $3, 'x', $4)`,
		id, linked, username, role,
	)
	return id, err
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
