package handler

import (
	"time"

	"github.com/dtroode/employee-directory/internal/model"
	"github.com/dtroode/employee-directory/internal/validation"
)

var (
	optionalNotEmpty    = validation.Optional(validation.NotEmpty)
	optionalEmail       = validation.Optional(validation.Email)
	optionalNumeric     = validation.Optional(validation.Numeric)
	optionalNonNegative = validation.Optional(validation.NonNegative)
	optionalISODate     = validation.Optional(validation.ISODate)
)

var employeeSanitizers = []validation.Sanitizer{
	{Field: "first_name", Apply: validation.Trim},
	{Field: "last_name", Apply: validation.Trim},
	{Field: "email", Apply: validation.NormalizeEmail},
	{Field: "position", Apply: validation.Trim},
	{Field: "salary", Apply: validation.Trim},
	{Field: "date_of_joining", Apply: validation.Trim},
	{Field: "department", Apply: validation.Trim},
}

var signupRules = validation.Set{
	Sanitizers: []validation.Sanitizer{
		{Field: "username", Apply: validation.Trim},
		{Field: "email", Apply: validation.NormalizeEmail},
	},
	Rules: []validation.Rule{
		{Field: "username", Check: validation.Required, Message: "Username is required"},
		{Field: "username", Check: validation.MinLength(3), Message: "Username must be at least 3 characters long"},
		{Field: "email", Check: validation.Email, Message: "Valid email is required"},
		{Field: "password", Check: validation.MinLength(6), Message: "Password must be at least 6 characters long"},
	},
}

var loginRules = validation.Set{
	Sanitizers: []validation.Sanitizer{
		{Field: "email", Apply: validation.Trim},
	},
	Rules: []validation.Rule{
		{Field: "email", Check: validation.Required, Message: "Email or username is required"},
		{Field: "password", Check: validation.Required, Message: "Password is required"},
	},
}

// Fields that are not submitted at all are left to the service, which
// reports every required field at once.
var createEmployeeRules = validation.Set{
	Sanitizers: employeeSanitizers,
	Rules: []validation.Rule{
		{Field: "first_name", Check: optionalNotEmpty, Message: "First name is required"},
		{Field: "last_name", Check: optionalNotEmpty, Message: "Last name is required"},
		{Field: "email", Check: optionalEmail, Message: "Valid email is required"},
		{Field: "position", Check: optionalNotEmpty, Message: "Position is required"},
		{Field: "salary", Check: optionalNotEmpty, Message: "Salary is required"},
		{Field: "salary", Check: optionalNumeric, Message: "Salary must be a number"},
		{Field: "salary", Check: optionalNonNegative, Message: "Salary cannot be negative"},
		{Field: "date_of_joining", Check: optionalNotEmpty, Message: "Date of joining is required"},
		{Field: "date_of_joining", Check: optionalISODate, Message: "Valid date is required (YYYY-MM-DD)"},
		{Field: "department", Check: optionalNotEmpty, Message: "Department is required"},
	},
}

var updateEmployeeRules = validation.Set{
	Sanitizers: employeeSanitizers,
	Rules: []validation.Rule{
		{Field: "first_name", Check: optionalNotEmpty, Message: "First name cannot be empty"},
		{Field: "last_name", Check: optionalNotEmpty, Message: "Last name cannot be empty"},
		{Field: "email", Check: optionalEmail, Message: "Valid email is required"},
		{Field: "position", Check: optionalNotEmpty, Message: "Position cannot be empty"},
		{Field: "salary", Check: optionalNumeric, Message: "Salary must be a number"},
		{Field: "salary", Check: optionalNonNegative, Message: "Salary cannot be negative"},
		{Field: "date_of_joining", Check: optionalISODate, Message: "Valid date is required (YYYY-MM-DD)"},
		{Field: "department", Check: optionalNotEmpty, Message: "Department cannot be empty"},
	},
}

// createParams converts validated fields. Absent fields stay nil.
func createParams(f validation.Fields) model.CreateEmployeeParams {
	return model.CreateEmployeeParams{
		FirstName:     stringField(f, "first_name"),
		LastName:      stringField(f, "last_name"),
		Email:         stringField(f, "email"),
		Position:      stringField(f, "position"),
		Salary:        numberField(f, "salary"),
		DateOfJoining: dateField(f, "date_of_joining"),
		Department:    stringField(f, "department"),
	}
}

func updateParams(f validation.Fields) model.UpdateEmployeeParams {
	return model.UpdateEmployeeParams{
		FirstName:     stringField(f, "first_name"),
		LastName:      stringField(f, "last_name"),
		Email:         stringField(f, "email"),
		Position:      stringField(f, "position"),
		Salary:        numberField(f, "salary"),
		DateOfJoining: dateField(f, "date_of_joining"),
		Department:    stringField(f, "department"),
	}
}

func stringField(f validation.Fields, name string) *string {
	v, ok := f.Get(name)
	if !ok {
		return nil
	}
	return &v
}

func numberField(f validation.Fields, name string) *float64 {
	v, ok := f.Get(name)
	if !ok {
		return nil
	}
	n, err := validation.ParseNumber(v)
	if err != nil {
		return nil
	}
	return &n
}

func dateField(f validation.Fields, name string) *time.Time {
	v, ok := f.Get(name)
	if !ok {
		return nil
	}
	d, err := validation.ParseDate(v)
	if err != nil {
		return nil
	}
	return &d
}
