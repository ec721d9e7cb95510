package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/employee-directory/internal/model"
)

var _ model.EmployeeStore = (*EmployeeRepository)(nil)

// EmployeeRepository implements model.EmployeeStore on postgres.
type EmployeeRepository struct {
	db *Connection
}

// NewEmployeeRepository creates an EmployeeRepository on db.
func NewEmployeeRepository(db *Connection) *EmployeeRepository {
	return &EmployeeRepository{
		db: db,
	}
}

const employeeColumns = `id, first_name, last_name, email, position, salary, date_of_joining,
	department, profile_picture, created_at, updated_at`

// Create inserts e and returns the stored row. A taken email yields
// model.ErrConflict.
func (r *EmployeeRepository) Create(ctx context.Context, e model.Employee) (model.Employee, error) {
	query := `INSERT INTO employees (id, first_name, last_name, email, position, salary,
			  date_of_joining, department, profile_picture, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + employeeColumns

	row := r.db.QueryRow(ctx, query,
		e.ID, e.FirstName, e.LastName, e.Email, e.Position, e.Salary,
		e.DateOfJoining, e.Department, e.ProfilePicture, e.CreatedAt, e.UpdatedAt,
	)
	saved, err := scanEmployee(row)
	if err != nil {
		return model.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return saved, nil
}

// GetByID returns the employee with id or model.ErrNotFound.
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return model.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return e, nil
}

// GetByEmail matches email case-insensitively.
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE lower(email) = lower($1)`

	e, err := scanEmployee(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return model.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return e, nil
}

// List returns all employees, newest first.
func (r *EmployeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at DESC`

	employees, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// Search returns employees matching filter, newest first.
func (r *EmployeeRepository) Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error) {
	query, args := buildSearchQuery(filter)

	employees, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return employees, nil
}

// Update overwrites the row with e.ID and returns it. A missing row
// yields model.ErrNotFound, a taken email model.ErrConflict.
func (r *EmployeeRepository) Update(ctx context.Context, e model.Employee) (model.Employee, error) {
	query := `UPDATE employees
			  SET first_name = $2, last_name = $3, email = $4, position = $5, salary = $6,
			      date_of_joining = $7, department = $8, profile_picture = $9, updated_at = $10
			  WHERE id = $1
			  RETURNING ` + employeeColumns

	row := r.db.QueryRow(ctx, query,
		e.ID, e.FirstName, e.LastName, e.Email, e.Position, e.Salary,
		e.DateOfJoining, e.Department, e.ProfilePicture, e.UpdatedAt,
	)
	saved, err := scanEmployee(row)
	if err != nil {
		return model.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return saved, nil
}

// Delete removes the employee or returns model.ErrNotFound.
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete employee: %w", model.ErrNotFound)
	}
	return nil
}

func (r *EmployeeRepository) query(ctx context.Context, query string, args ...any) ([]model.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	employees := make([]model.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return employees, nil
}

// buildSearchQuery ANDs a case-insensitive substring match for every
// non-empty filter field.
func buildSearchQuery(filter model.EmployeeFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if d := strings.TrimSpace(filter.Department); d != "" {
		args = append(args, containsPattern(d))
		conds = append(conds, fmt.Sprintf("department ILIKE $%d", len(args)))
	}
	if p := strings.TrimSpace(filter.Position); p != "" {
		args = append(args, containsPattern(p))
		conds = append(conds, fmt.Sprintf("position ILIKE $%d", len(args)))
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	return query, args
}

func scanEmployee(row pgx.Row) (model.Employee, error) {
	var e model.Employee
	err := row.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Position, &e.Salary,
		&e.DateOfJoining, &e.Department, &e.ProfilePicture, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return model.Employee{}, mapError(err)
	}
	return e, nil
}
