// Package mocks contains testify mocks for the interfaces the services and
// handlers depend on.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/employee-directory/internal/model"
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByLogin(ctx context.Context, login string) (model.User, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

type EmployeeStore struct {
	mock.Mock
}

func (m *EmployeeStore) Create(ctx context.Context, employee model.Employee) (model.Employee, error) {
	args := m.Called(ctx, employee)
	return args.Get(0).(model.Employee), args.Error(1)
}

func (m *EmployeeStore) GetByID(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Employee), args.Error(1)
}

func (m *EmployeeStore) GetByEmail(ctx context.Context, email string) (model.Employee, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Employee), args.Error(1)
}

func (m *EmployeeStore) List(ctx context.Context) ([]model.Employee, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Employee), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmployeeStore) Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.Employee), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmployeeStore) Update(ctx context.Context, employee model.Employee) (model.Employee, error) {
	args := m.Called(ctx, employee)
	return args.Get(0).(model.Employee), args.Error(1)
}

func (m *EmployeeStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
