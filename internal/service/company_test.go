package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/query"
	"github.com/maxviazov/company-employees-service/internal/repository"
	"github.com/maxviazov/company-employees-service/internal/repository/memory"
	"github.com/maxviazov/company-employees-service/internal/service"
)

type fixture struct {
	companies service.CompanyService
	employees service.EmployeeService
}

func newFixture() fixture {
	s := memory.NewStore()
	s.Seed()
	cr, er := memory.NewCompanyRepository(s), memory.NewEmployeeRepository(s)
	log := zerolog.New(io.Discard)
	return fixture{
		companies: service.NewCompanyService(cr, er, memory.NewTxManager(s), log),
		employees: service.NewEmployeeService(er, cr, service.EmployeeOptions{}, log),
	}
}

func TestCompanyService_ListAndGet(t *testing.T) {
	f := newFixture()
	list, err := f.companies.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Admin_Solutions Ltd", list[0].Name)
	assert.Equal(t, "312 Forest Avenue, BF 923 USA", list[0].FullAddress)

	_, err = f.companies.GetCompany(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCompanyService_GetCompanies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := uuid.MustParse("3d490a70-94ce-4d15-9494-5248280c2ce3")

	got, err := f.companies.GetCompanies(ctx, []uuid.UUID{itSolutions, admin, itSolutions})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = f.companies.GetCompanies(ctx, []uuid.UUID{itSolutions, uuid.New()})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.companies.GetCompanies(ctx, nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCompanyService_CreateWithEmployees(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, err := f.companies.CreateCompany(ctx, model.CompanyForManipulation{
		Name:    "Electronics Solutions Ltd",
		Address: "312 Deviso Ave",
		Country: "USA",
		Employees: []model.EmployeeForManipulation{
			{Name: "Joan Dane", Age: 29, Position: "Manager"},
			{Name: "Martin Geil", Age: 29, Position: "Administrative"},
		},
	})
	require.NoError(t, err)

	page, err := f.employees.ListEmployees(ctx, c.ID, query.NewParameters(query.DefaultLimits))
	require.NoError(t, err)
	assert.Equal(t, 2, page.MetaData.TotalCount)
}

func TestCompanyService_CreateValidationCoversNestedEmployees(t *testing.T) {
	f := newFixture()
	_, err := f.companies.CreateCompany(context.Background(), model.CompanyForManipulation{
		Name:      "",
		Address:   "x",
		Employees: []model.EmployeeForManipulation{{Name: "Kid", Age: 10, Position: "p"}},
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, []string{"name", "employees[0].age"}, fieldNames(err))
}

func TestCompanyService_CreateRollsBackOnEmployeeFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.companies.CreateCompanyCollection(ctx, []model.CompanyForManipulation{
		{Name: "Fresh Ltd", Address: "x"},
		{Name: "IT_Solutions Ltd", Address: "dup"},
	})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)

	list, err := f.companies.ListCompanies(ctx)
	require.NoError(t, err)
	for _, c := range list {
		assert.NotEqual(t, "Fresh Ltd", c.Name)
	}
}

func TestCompanyService_CreateCollectionValidation(t *testing.T) {
	f := newFixture()
	_, err := f.companies.CreateCompanyCollection(context.Background(), nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.companies.CreateCompanyCollection(context.Background(), []model.CompanyForManipulation{{Name: "A", Address: "x"}, {Name: "B"}})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, []string{"[1].address"}, fieldNames(err))
}

func TestCompanyService_UpdateAndDeleteCascade(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.companies.UpdateCompany(ctx, itSolutions, model.CompanyForManipulation{
		Name: "IT Solutions", Address: "New street", Country: "UK",
		Employees: []model.EmployeeForManipulation{{Name: "New Hire", Age: 22, Position: "Dev"}},
	}))
	got, err := f.companies.GetCompany(ctx, itSolutions)
	require.NoError(t, err)
	assert.Equal(t, "IT Solutions", got.Name)
	page, err := f.employees.ListEmployees(ctx, itSolutions, query.NewParameters(query.DefaultLimits))
	require.NoError(t, err)
	assert.Equal(t, 3, page.MetaData.TotalCount)

	require.NoError(t, f.companies.DeleteCompany(ctx, itSolutions))
	_, err = f.employees.GetEmployee(ctx, itSolutions, samRaiden)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.ErrorIs(t, f.companies.DeleteCompany(ctx, itSolutions), repository.ErrNotFound)
}
