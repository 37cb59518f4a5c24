package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/repository"
)

// companyService creates companies together with their initial employees in one unit of work.
type companyService struct {
	companies repository.CompanyRepository
	employees repository.EmployeeRepository
	tx        repository.TxManager
	log       zerolog.Logger
}

func NewCompanyService(companies repository.CompanyRepository, employees repository.EmployeeRepository, tx repository.TxManager, logger zerolog.Logger) CompanyService {
	l := logger.With().Str("module", "service").Str("component", "company").Logger()
	return &companyService{companies: companies, employees: employees, tx: tx, log: l}
}

func (s *companyService) ListCompanies(ctx context.Context) ([]model.CompanyDto, error) {
	list, err := s.companies.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list companies failed")
		return nil, err
	}
	return toCompanyDtos(list), nil
}

func (s *companyService) GetCompany(ctx context.Context, id uuid.UUID) (model.CompanyDto, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return model.CompanyDto{}, err
	}
	return model.ToCompanyDto(c), nil
}

func (s *companyService) GetCompanies(ctx context.Context, ids []uuid.UUID) ([]model.CompanyDto, error) {
	if len(ids) == 0 {
		return nil, newInvalidInput([]FieldError{{Field: "ids", Message: "must not be empty"}})
	}
	list, err := s.companies.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Error().Err(err).Int("ids", len(ids)).Msg("get companies by ids failed")
		return nil, err
	}
	if len(list) != len(distinct(ids)) {
		return nil, fmt.Errorf("some ids are not valid in a collection: %w", repository.ErrNotFound)
	}
	return toCompanyDtos(list), nil
}

func (s *companyService) CreateCompany(ctx context.Context, in model.CompanyForManipulation) (model.CompanyDto, error) {
	start := time.Now()
	if err := newInvalidInput(validateStruct(in)); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("company validation failed")
		return model.CompanyDto{}, err
	}
	var out model.Company
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.create(ctx, in)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("name", in.Name).Msg("create company failed")
		return model.CompanyDto{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("company_id", out.ID.String()).Int("employees", len(in.Employees)).Msg("company created")
	return model.ToCompanyDto(out), nil
}

func (s *companyService) CreateCompanyCollection(ctx context.Context, in []model.CompanyForManipulation) ([]model.CompanyDto, error) {
	if len(in) == 0 {
		return nil, newInvalidInput([]FieldError{{Field: "body", Message: "company collection is empty"}})
	}
	var ferrs []FieldError
	for i, c := range in {
		for _, fe := range validateStruct(c) {
			fe.Field = fmt.Sprintf("[%d].%s", i, fe.Field)
			ferrs = append(ferrs, fe)
		}
	}
	if err := newInvalidInput(ferrs); err != nil {
		return nil, err
	}
	out := make([]model.CompanyDto, 0, len(in))
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, c := range in {
			created, err := s.create(ctx, c)
			if err != nil {
				return err
			}
			out = append(out, model.ToCompanyDto(created))
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Int("companies", len(in)).Msg("create company collection failed")
		return nil, err
	}
	return out, nil
}

// create must run inside a transaction.
func (s *companyService) create(ctx context.Context, in model.CompanyForManipulation) (model.Company, error) {
	c, err := s.companies.Create(ctx, model.Company{Name: in.Name, Address: in.Address, Country: in.Country})
	if err != nil {
		return model.Company{}, err
	}
	if err := s.addEmployees(ctx, c.ID, in.Employees); err != nil {
		return model.Company{}, err
	}
	return c, nil
}

func (s *companyService) addEmployees(ctx context.Context, companyID uuid.UUID, in []model.EmployeeForManipulation) error {
	for _, e := range in {
		if _, err := s.employees.Create(ctx, model.Employee{CompanyID: companyID, Name: e.Name, Age: e.Age, Position: e.Position}); err != nil {
			return err
		}
	}
	return nil
}

// UpdateCompany replaces the company fields; employees in the payload are added to it.
func (s *companyService) UpdateCompany(ctx context.Context, id uuid.UUID, in model.CompanyForManipulation) error {
	if err := newInvalidInput(validateStruct(in)); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		cur, err := s.companies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		cur.Name, cur.Address, cur.Country = in.Name, in.Address, in.Country
		if _, err := s.companies.Update(ctx, cur); err != nil {
			return err
		}
		return s.addEmployees(ctx, id, in.Employees)
	})
}

func (s *companyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("company_id", id.String()).Msg("delete company failed")
		}
		return err
	}
	s.log.Info().Str("company_id", id.String()).Msg("company deleted")
	return nil
}

func toCompanyDtos(in []model.Company) []model.CompanyDto {
	out := make([]model.CompanyDto, 0, len(in))
	for _, c := range in {
		out = append(out, model.ToCompanyDto(c))
	}
	return out
}

func distinct(ids []uuid.UUID) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
