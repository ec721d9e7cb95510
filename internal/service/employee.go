package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/logger"
	"github.com/dtroode/employee-directory/internal/model"
	"github.com/dtroode/employee-directory/internal/upload"
	"github.com/dtroode/employee-directory/internal/validation"
)

var requiredEmployeeFields = []string{
	"first_name", "last_name", "email", "position", "salary", "date_of_joining", "department",
}

// FileRemover deletes stored uploads on a best-effort basis.
type FileRemover interface {
	Delete(ctx context.Context, name string) upload.DeleteResult
}

// Employee runs employee mutations and keeps stored pictures consistent with
// the records that reference them. A file passed in by the caller is removed
// whenever the operation fails.
type Employee struct {
	store  model.EmployeeStore
	files  FileRemover
	logger *logger.Logger
	now    func() time.Time
}

// NewEmployee creates an Employee service. files removes pictures that are
// no longer referenced.
func NewEmployee(store model.EmployeeStore, files FileRemover, logger *logger.Logger) *Employee {
	return &Employee{
		store:  store,
		files:  files,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new employee. storedFile is the name of an already saved
// profile picture, or empty.
func (s *Employee) Create(ctx context.Context, params model.CreateEmployeeParams, storedFile string) (uuid.UUID, error) {
	if missing := params.Missing(); len(missing) > 0 {
		s.logger.Debug("Employee service: missing fields",
			"missing", strings.Join(missing, ","))
		s.discard(ctx, storedFile, "missing fields")
		return uuid.Nil, apierror.NewErrMissingFields(requiredEmployeeFields)
	}

	email := strings.ToLower(strings.TrimSpace(*params.Email))
	_, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info("Employee service: email already taken",
			"email", email)
		s.discard(ctx, storedFile, "duplicate email")
		return uuid.Nil, apierror.NewErrEmployeeExists()
	}
	if !errors.Is(err, model.ErrNotFound) {
		s.logger.Error("Employee service: failed to check email",
			"email", email,
			"error", err.Error())
		s.discard(ctx, storedFile, "email lookup failed")
		return uuid.Nil, fmt.Errorf("failed to get employee by email: %w", err)
	}

	now := s.now()
	employee := model.Employee{
		ID:            uuid.New(),
		FirstName:     *params.FirstName,
		LastName:      *params.LastName,
		Email:         email,
		Position:      *params.Position,
		Salary:        *params.Salary,
		DateOfJoining: *params.DateOfJoining,
		Department:    *params.Department,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if storedFile != "" {
		employee.ProfilePicture = &storedFile
	}
	employee.Normalize()

	if err := employee.Validate(); err != nil {
		s.discard(ctx, storedFile, "invalid record")
		return uuid.Nil, badRequestFrom(err)
	}

	saved, err := s.store.Create(ctx, employee)
	if errors.Is(err, model.ErrConflict) {
		s.logger.Info("Employee service: email taken concurrently",
			"email", email)
		s.discard(ctx, storedFile, "duplicate email")
		return uuid.Nil, apierror.NewErrEmployeeExists()
	}
	if err != nil {
		s.logger.Error("Employee service: failed to create employee",
			"email", email,
			"error", err.Error())
		s.discard(ctx, storedFile, "create failed")
		return uuid.Nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("Employee service: employee created",
		"employee_id", saved.ID.String(),
		"with_picture", storedFile != "")

	return saved.ID, nil
}

// Update applies the submitted fields. A new picture replaces the previous
// one, which is deleted only once the record is persisted.
func (s *Employee) Update(ctx context.Context, id string, params model.UpdateEmployeeParams, storedFile string) error {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		s.discard(ctx, storedFile, "invalid id")
		return apierror.NewErrInvalidEmployeeID()
	}

	current, err := s.store.GetByID(ctx, employeeID)
	if errors.Is(err, model.ErrNotFound) {
		s.discard(ctx, storedFile, "employee not found")
		return apierror.NewErrEmployeeNotFound()
	}
	if err != nil {
		s.logger.Error("Employee service: failed to get employee",
			"employee_id", id,
			"error", err.Error())
		s.discard(ctx, storedFile, "lookup failed")
		return fmt.Errorf("failed to get employee by id: %w", err)
	}

	previous := current.ProfilePicture

	updated := current
	params.Apply(&updated)
	if storedFile != "" {
		updated.ProfilePicture = &storedFile
	}
	updated.UpdatedAt = s.now()
	updated.Normalize()

	if err := updated.Validate(); err != nil {
		s.discard(ctx, storedFile, "invalid record")
		return badRequestFrom(err)
	}

	_, err = s.store.Update(ctx, updated)
	switch {
	case errors.Is(err, model.ErrNotFound):
		s.discard(ctx, storedFile, "employee not found")
		return apierror.NewErrEmployeeNotFound()
	case errors.Is(err, model.ErrConflict):
		s.logger.Info("Employee service: email already taken",
			"employee_id", id,
			"email", updated.Email)
		s.discard(ctx, storedFile, "duplicate email")
		return apierror.NewErrEmployeeExists()
	case err != nil:
		s.logger.Error("Employee service: failed to update employee",
			"employee_id", id,
			"error", err.Error())
		s.discard(ctx, storedFile, "update failed")
		return fmt.Errorf("failed to update employee: %w", err)
	}

	if storedFile != "" && previous != nil && *previous != storedFile {
		s.discard(ctx, *previous, "picture replaced")
	}

	s.logger.Info("Employee service: employee updated",
		"employee_id", id,
		"picture_replaced", storedFile != "")

	return nil
}

// Delete removes the employee and then its picture.
func (s *Employee) Delete(ctx context.Context, id string) error {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return apierror.NewErrInvalidEmployeeID()
	}

	current, err := s.store.GetByID(ctx, employeeID)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrEmployeeNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get employee by id: %w", err)
	}

	err = s.store.Delete(ctx, employeeID)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrEmployeeNotFound()
	}
	if err != nil {
		s.logger.Error("Employee service: failed to delete employee",
			"employee_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	if current.ProfilePicture != nil {
		s.discard(ctx, *current.ProfilePicture, "employee deleted")
	}

	s.logger.Info("Employee service: employee deleted",
		"employee_id", id)

	return nil
}

// GetByID returns the employee with id.
func (s *Employee) GetByID(ctx context.Context, id string) (model.Employee, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return model.Employee{}, apierror.NewErrInvalidEmployeeID()
	}

	employee, err := s.store.GetByID(ctx, employeeID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Employee{}, apierror.NewErrEmployeeNotFound()
	}
	if err != nil {
		return model.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return employee, nil
}

// List returns every employee, newest first.
func (s *Employee) List(ctx context.Context) ([]model.Employee, error) {
	employees, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// Search matches department and position as case-insensitive substrings.
// At least one of them is required.
func (s *Employee) Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error) {
	if filter.IsEmpty() {
		return nil, apierror.NewErrMissingSearchParams()
	}

	filter.Department = strings.TrimSpace(filter.Department)
	filter.Position = strings.TrimSpace(filter.Position)

	employees, err := s.store.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return employees, nil
}

// discard deletes a stored file and logs the outcome. It runs even when the
// request context is already canceled.
func (s *Employee) discard(ctx context.Context, name, reason string) {
	if name == "" {
		return
	}

	res := s.files.Delete(context.WithoutCancel(ctx), name)
	switch {
	case res.Err != nil:
		s.logger.Warn("Employee service: failed to delete stored file",
			"file", res.Name,
			"reason", reason,
			"error", res.Err.Error())
	case res.Deleted:
		s.logger.Debug("Employee service: stored file deleted",
			"file", res.Name,
			"reason", reason)
	default:
		s.logger.Debug("Employee service: stored file already absent",
			"file", res.Name,
			"reason", reason)
	}
}

func badRequestFrom(err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return apierror.NewErrBadRequest(verr.First())
	}
	return apierror.NewErrBadRequest(err.Error())
}
