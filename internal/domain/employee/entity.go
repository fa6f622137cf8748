package employee

import "time"

type Employee struct {
	ID           string
	FirstName    string
	LastName     string
	Email        *string
	DepartmentID *string
	HireDate     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
