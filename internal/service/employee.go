package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/query"
	"github.com/maxviazov/company-employees-service/internal/repository"
)

// EmployeeOptions tunes list parsing.
type EmployeeOptions struct {
	// Strict rejects unknown orderBy/fields tokens instead of skipping them.
	Strict bool
	Limits query.Limits
}

type employeeService struct {
	employees repository.EmployeeRepository
	companies repository.CompanyRepository
	opts      EmployeeOptions
	sortables *query.Resolver[model.Employee]
	shapeable *query.Resolver[model.EmployeeDto]
	log       zerolog.Logger
}

func NewEmployeeService(employees repository.EmployeeRepository, companies repository.CompanyRepository, opts EmployeeOptions, logger zerolog.Logger) EmployeeService {
	if opts.Limits == (query.Limits{}) {
		opts.Limits = query.DefaultLimits
	}
	l := logger.With().Str("module", "service").Str("component", "employee").Logger()
	return &employeeService{
		employees: employees,
		companies: companies,
		opts:      opts,
		sortables: repository.EmployeeResolver(),
		shapeable: query.NewResolver[model.EmployeeDto](),
		log:       l,
	}
}

func (s *employeeService) ListEmployees(ctx context.Context, companyID uuid.UUID, p query.Parameters) (query.PagedList[model.EmployeeDto], error) {
	start := time.Now()
	ferrs := validateStruct(p)
	order, unknownSort := query.ParseSort(s.sortables, p.OrderBy)
	if s.opts.Strict {
		ferrs = append(ferrs, unknownTokens("orderBy", unknownSort)...)
		ferrs = append(ferrs, unknownTokens("fields", s.unknownFields(p.Fields))...)
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("list parameters rejected")
		return query.PagedList[model.EmployeeDto]{}, err
	}
	if err := s.requireCompany(ctx, companyID); err != nil {
		return query.PagedList[model.EmployeeDto]{}, err
	}

	p = p.Normalize(s.opts.Limits)
	page, err := s.employees.List(ctx, companyID, p, order)
	if err != nil {
		s.log.Error().Err(err).Str("company_id", companyID.String()).Msg("list employees failed")
		return query.PagedList[model.EmployeeDto]{}, err
	}
	s.log.Debug().
		Dur("took", time.Since(start)).
		Str("company_id", companyID.String()).
		Str("order", order.String()).
		Int("total", page.MetaData.TotalCount).
		Int("returned", len(page.Items)).
		Msg("employees listed")
	return query.PagedList[model.EmployeeDto]{
		Items:    model.ToEmployeeDtos(page.Items),
		MetaData: page.MetaData,
	}, nil
}

func (s *employeeService) unknownFields(fields string) []string {
	var unknown []string
	for _, tok := range query.SplitFields(fields) {
		if _, ok := s.shapeable.Lookup(tok); !ok {
			unknown = append(unknown, tok)
		}
	}
	return unknown
}

func (s *employeeService) requireCompany(ctx context.Context, companyID uuid.UUID) error {
	ok, err := s.companies.Exists(ctx, companyID)
	if err != nil {
		s.log.Error().Err(err).Str("company_id", companyID.String()).Msg("company lookup failed")
		return err
	}
	if !ok {
		return fmt.Errorf("company with id %s doesn't exist: %w", companyID, repository.ErrNotFound)
	}
	return nil
}

func (s *employeeService) GetEmployee(ctx context.Context, companyID, id uuid.UUID) (model.EmployeeDto, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return model.EmployeeDto{}, err
	}
	e, err := s.employees.GetByID(ctx, companyID, id)
	if err != nil {
		return model.EmployeeDto{}, err
	}
	return model.ToEmployeeDto(e), nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, companyID uuid.UUID, in model.EmployeeForManipulation) (model.EmployeeDto, error) {
	if err := newInvalidInput(validateStruct(in)); err != nil {
		return model.EmployeeDto{}, err
	}
	if err := s.requireCompany(ctx, companyID); err != nil {
		return model.EmployeeDto{}, err
	}
	out, err := s.employees.Create(ctx, model.Employee{CompanyID: companyID, Name: in.Name, Age: in.Age, Position: in.Position})
	if err != nil {
		s.log.Error().Err(err).Str("company_id", companyID.String()).Msg("create employee failed")
		return model.EmployeeDto{}, err
	}
	s.log.Info().Str("company_id", companyID.String()).Str("employee_id", out.ID.String()).Msg("employee created")
	return model.ToEmployeeDto(out), nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, companyID, id uuid.UUID, in model.EmployeeForManipulation) error {
	if err := newInvalidInput(validateStruct(in)); err != nil {
		return err
	}
	return s.save(ctx, companyID, id, func(model.EmployeeForManipulation) (model.EmployeeForManipulation, error) {
		return in, nil
	})
}

// PatchEmployee merges the patch onto the stored employee and re-validates the result.
func (s *employeeService) PatchEmployee(ctx context.Context, companyID, id uuid.UUID, patch model.EmployeePatch) error {
	return s.save(ctx, companyID, id, func(cur model.EmployeeForManipulation) (model.EmployeeForManipulation, error) {
		patch.ApplyTo(&cur)
		if err := newUnprocessable(validateStruct(cur)); err != nil {
			return cur, err
		}
		return cur, nil
	})
}

func (s *employeeService) save(ctx context.Context, companyID, id uuid.UUID, next func(model.EmployeeForManipulation) (model.EmployeeForManipulation, error)) error {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return err
	}
	cur, err := s.employees.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	in, err := next(model.EmployeeForManipulation{Name: cur.Name, Age: cur.Age, Position: cur.Position})
	if err != nil {
		return err
	}
	cur.Name, cur.Age, cur.Position = in.Name, in.Age, in.Position
	if _, err := s.employees.Update(ctx, cur); err != nil {
		s.log.Error().Err(err).Str("employee_id", id.String()).Msg("update employee failed")
		return err
	}
	return nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, companyID, id uuid.UUID) error {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, companyID, id); err != nil {
		return err
	}
	s.log.Info().Str("company_id", companyID.String()).Str("employee_id", id.String()).Msg("employee deleted")
	return nil
}
