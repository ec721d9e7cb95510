package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/logger"
	"github.com/dtroode/employee-directory/internal/model"
)

// EmployeeService manages employee records.
type EmployeeService interface {
	Create(ctx context.Context, params model.CreateEmployeeParams, storedFile string) (uuid.UUID, error)
	Update(ctx context.Context, id string, params model.UpdateEmployeeParams, storedFile string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error)
}

// UploadManager stores and serves profile pictures.
type UploadManager interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	MaxSize() int64
}

// Employee handles the employee routes.
type Employee struct {
	service        EmployeeService
	uploads        UploadManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewEmployee creates an Employee handler.
func NewEmployee(
	service EmployeeService,
	uploads UploadManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Employee {
	return &Employee{
		service:        service,
		uploads:        uploads,
		contextManager: contextManager,
		logger:         logger,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type createEmployeeResponse struct {
	Message    string    `json:"message"`
	EmployeeID uuid.UUID `json:"employee_id"`
}

type employeeResponse struct {
	Status bool           `json:"status"`
	Data   model.Employee `json:"data"`
}

type employeeListResponse struct {
	Status bool             `json:"status"`
	Count  *int             `json:"count,omitempty"`
	Data   []model.Employee `json:"data"`
}

// List handles GET /employees.
func (h *Employee) List(c *gin.Context) {
	employees, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, "Employee handler: failed to list employees", err)
		return
	}
	c.JSON(http.StatusOK, employeeListResponse{Status: true, Data: nonNil(employees)})
}

// Search handles GET /employees/search.
func (h *Employee) Search(c *gin.Context) {
	filter := model.EmployeeFilter{
		Department: c.Query("department"),
		Position:   c.Query("position"),
	}

	employees, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		handleError(c, h.logger, "Employee handler: failed to search employees", err)
		return
	}

	employees = nonNil(employees)
	count := len(employees)
	c.JSON(http.StatusOK, employeeListResponse{Status: true, Count: &count, Data: employees})
}

// Get handles GET /employees/:id.
func (h *Employee) Get(c *gin.Context) {
	employee, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Employee handler: failed to get employee", err)
		return
	}
	c.JSON(http.StatusOK, employeeResponse{Status: true, Data: employee})
}

// Create handles POST /employees.
func (h *Employee) Create(c *gin.Context) {
	ctx := c.Request.Context()

	fields, fh, err := readFields(c, h.uploads.MaxSize())
	if err != nil {
		handleError(c, h.logger, "Employee handler: failed to read body", err)
		return
	}
	if err := createEmployeeRules.Run(fields); err != nil {
		handleError(c, h.logger, "", apierror.NewErrBadRequest(err.Error()))
		return
	}

	storedFile, err := h.save(ctx, fh)
	if err != nil {
		handleError(c, h.logger, "Employee handler: failed to store picture", err)
		return
	}

	id, err := h.service.Create(ctx, createParams(fields), storedFile)
	if err != nil {
		handleError(c, h.logger, "Employee handler: failed to create employee", err)
		return
	}

	h.logger.Info("Employee handler: employee created",
		"employee_id", id.String(),
		"by", h.actor(ctx))

	c.JSON(http.StatusCreated, createEmployeeResponse{
		Message:    "Employee created successfully",
		EmployeeID: id,
	})
}

// Update handles PUT /employees/:id.
func (h *Employee) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	fields, fh, err := readFields(c, h.uploads.MaxSize())
	if err != nil {
		handleError(c, h.logger, "Employee handler: failed to read body", err)
		return
	}
	if err := updateEmployeeRules.Run(fields); err != nil {
		handleError(c, h.logger, "", apierror.NewErrBadRequest(err.Error()))
		return
	}

	storedFile, err := h.save(ctx, fh)
	if err != nil {
		handleError(c, h.logger, "Employee handler: failed to store picture", err)
		return
	}

	if err := h.service.Update(ctx, id, updateParams(fields), storedFile); err != nil {
		handleError(c, h.logger, "Employee handler: failed to update employee", err)
		return
	}

	h.logger.Info("Employee handler: employee updated",
		"employee_id", id,
		"by", h.actor(ctx))

	c.JSON(http.StatusOK, messageResponse{Message: "Employee details updated successfully"})
}

// Delete handles DELETE /employees/:id.
func (h *Employee) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.service.Delete(ctx, id); err != nil {
		handleError(c, h.logger, "Employee handler: failed to delete employee", err)
		return
	}

	h.logger.Info("Employee handler: employee deleted",
		"employee_id", id,
		"by", h.actor(ctx))

	c.JSON(http.StatusOK, messageResponse{Message: "Employee deleted successfully"})
}

func (h *Employee) save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	return h.uploads.Save(ctx, fh)
}

func (h *Employee) actor(ctx context.Context) string {
	identity, ok := h.contextManager.GetIdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return identity.ID.String()
}

func nonNil(employees []model.Employee) []model.Employee {
	if employees == nil {
		return []model.Employee{}
	}
	return employees
}
