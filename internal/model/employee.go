package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/employee-directory/internal/validation"
)

// EmployeeStore defines persistence operations for employees.
type EmployeeStore interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Search(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Update(ctx context.Context, employee Employee) (Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Employee represents a stored employee record.
type Employee struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Position       string    `json:"position"`
	Salary         float64   `json:"salary"`
	DateOfJoining  time.Time `json:"date_of_joining"`
	Department     string    `json:"department"`
	ProfilePicture *string   `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Normalize trims text fields and lower-cases the email.
func (e *Employee) Normalize() {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	e.Position = strings.TrimSpace(e.Position)
	e.Department = strings.TrimSpace(e.Department)
}

// Validate checks the record before it is persisted. It returns nil or a
// *validation.Error.
func (e Employee) Validate() error {
	var verr validation.Error

	if e.FirstName == "" {
		verr.Add("first_name", "First name is required")
	}
	if e.LastName == "" {
		verr.Add("last_name", "Last name is required")
	}
	switch {
	case e.Email == "":
		verr.Add("email", "Email is required")
	case !validation.IsEmail(e.Email):
		verr.Add("email", "Please provide a valid email")
	}
	if e.Position == "" {
		verr.Add("position", "Position is required")
	}
	if e.Salary < 0 {
		verr.Add("salary", "Salary cannot be negative")
	}
	if e.DateOfJoining.IsZero() {
		verr.Add("date_of_joining", "Date of joining is required")
	}
	if e.Department == "" {
		verr.Add("department", "Department is required")
	}

	if !verr.HasErrors() {
		return nil
	}
	return &verr
}

// CreateEmployeeParams contains the submitted fields of a new employee.
// Nil means the field was not submitted.
type CreateEmployeeParams struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Position      *string
	Salary        *float64
	DateOfJoining *time.Time
	Department    *string
}

// Missing returns the names of required fields that were not submitted
// or are blank.
func (p CreateEmployeeParams) Missing() []string {
	var missing []string
	blank := func(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

	if blank(p.FirstName) {
		missing = append(missing, "first_name")
	}
	if blank(p.LastName) {
		missing = append(missing, "last_name")
	}
	if blank(p.Email) {
		missing = append(missing, "email")
	}
	if blank(p.Position) {
		missing = append(missing, "position")
	}
	if p.Salary == nil {
		missing = append(missing, "salary")
	}
	if p.DateOfJoining == nil || p.DateOfJoining.IsZero() {
		missing = append(missing, "date_of_joining")
	}
	if blank(p.Department) {
		missing = append(missing, "department")
	}
	return missing
}

// UpdateEmployeeParams is a partial patch. Nil fields keep their value.
type UpdateEmployeeParams struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Position      *string
	Salary        *float64
	DateOfJoining *time.Time
	Department    *string
}

// Apply copies the submitted fields onto e.
func (p UpdateEmployeeParams) Apply(e *Employee) {
	if p.FirstName != nil {
		e.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		e.LastName = *p.LastName
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
	if p.DateOfJoining != nil {
		e.DateOfJoining = *p.DateOfJoining
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
}

// EmployeeFilter selects employees by case-insensitive substring. Empty
// fields are ignored; non-empty fields are combined with AND.
type EmployeeFilter struct {
	Department string
	Position   string
}

// IsEmpty reports whether no criteria are set.
func (f EmployeeFilter) IsEmpty() bool {
	return strings.TrimSpace(f.Department) == "" && strings.TrimSpace(f.Position) == ""
}
