package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/employee-directory/internal/model"
)

type AuthService struct {
	mock.Mock
}

func (m *AuthService) Signup(ctx context.Context, params model.SignupParams) (uuid.UUID, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, params model.LoginParams) (model.LoginResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.LoginResult), args.Error(1)
}

type EmployeeService struct {
	mock.Mock
}

func (m *EmployeeService) Create(ctx context.Context, params model.CreateEmployeeParams, storedFile string) (uuid.UUID, error) {
	args := m.Called(ctx, params, storedFile)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *EmployeeService) Update(ctx context.Context, id string, params model.UpdateEmployeeParams, storedFile string) error {
	args := m.Called(ctx, id, params, storedFile)
	return args.Error(0)
}

func (m *EmployeeService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EmployeeService) GetByID(ctx context.Context, id string) (model.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Employee), args.Error(1)
}

func (m *EmployeeService) List(ctx context.Context) ([]model.Employee, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Employee), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmployeeService) Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.Employee), args.Error(1)
	}
	return nil, args.Error(1)
}
