// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/query"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrUnprocessable marks a well-formed patch whose merged result fails validation (HTTP 422).
var ErrUnprocessable = errors.New("unprocessable entity")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to its marker.
type invalidInputError struct {
	marker error
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return e.marker.Error() }
func (e *invalidInputError) Unwrap() error        { return e.marker }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{marker: ErrInvalidInput, fields: fe}
}

// NewInvalidInputError lets the transport layer report its own parsing failures in the same shape.
func NewInvalidInputError(fe []FieldError) error { return newInvalidInput(fe) }

func newUnprocessable(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{marker: ErrUnprocessable, fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) {
		return v.Fields()
	}
	return nil
}

// CompanyService defines company-oriented use cases.
type CompanyService interface {
	ListCompanies(ctx context.Context) ([]model.CompanyDto, error)
	GetCompany(ctx context.Context, id uuid.UUID) (model.CompanyDto, error)
	// GetCompanies fails with not found unless every id exists.
	GetCompanies(ctx context.Context, ids []uuid.UUID) ([]model.CompanyDto, error)
	CreateCompany(ctx context.Context, in model.CompanyForManipulation) (model.CompanyDto, error)
	CreateCompanyCollection(ctx context.Context, in []model.CompanyForManipulation) ([]model.CompanyDto, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, in model.CompanyForManipulation) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}

// EmployeeService defines employee use cases, all scoped to a company.
type EmployeeService interface {
	// ListEmployees validates p, checks the company exists and returns one
	// composed page. Unknown orderBy/fields tokens are rejected only in strict mode.
	ListEmployees(ctx context.Context, companyID uuid.UUID, p query.Parameters) (query.PagedList[model.EmployeeDto], error)
	GetEmployee(ctx context.Context, companyID, id uuid.UUID) (model.EmployeeDto, error)
	CreateEmployee(ctx context.Context, companyID uuid.UUID, in model.EmployeeForManipulation) (model.EmployeeDto, error)
	UpdateEmployee(ctx context.Context, companyID, id uuid.UUID, in model.EmployeeForManipulation) error
	PatchEmployee(ctx context.Context, companyID, id uuid.UUID, patch model.EmployeePatch) error
	DeleteEmployee(ctx context.Context, companyID, id uuid.UUID) error
}
