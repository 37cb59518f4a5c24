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

var (
	itSolutions = uuid.MustParse("c9d4c053-49b6-410c-bc78-2d54a9991870")
	samRaiden   = uuid.MustParse("80abbca8-664d-4b20-b5de-024705497d4a")
)

func newEmployeeService(t *testing.T, opts service.EmployeeOptions) service.EmployeeService {
	t.Helper()
	s := memory.NewStore()
	s.Seed()
	return service.NewEmployeeService(memory.NewEmployeeRepository(s), memory.NewCompanyRepository(s), opts, zerolog.New(io.Discard))
}

func fieldNames(err error) []string {
	var out []string
	for _, fe := range service.FieldErrors(err) {
		out = append(out, fe.Field)
	}
	return out
}

func TestEmployeeService_ListEmployees_InvalidAgeRange(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{})
	p := query.NewParameters(query.DefaultLimits)
	p.MinAge, p.MaxAge = 40, 30

	_, err := svc.ListEmployees(context.Background(), itSolutions, p)
	require.ErrorIs(t, err, service.ErrInvalidInput)
	fe := service.FieldErrors(err)
	require.Len(t, fe, 1)
	assert.Equal(t, "maxAge", fe[0].Field)
	assert.Equal(t, "max age can't be less than min age", fe[0].Message)
}

func TestEmployeeService_ListEmployees_AgeRangeCheckedBeforeCompany(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{})
	p := query.NewParameters(query.DefaultLimits)
	p.MinAge, p.MaxAge = 40, 30

	_, err := svc.ListEmployees(context.Background(), uuid.New(), p)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestEmployeeService_ListEmployees_UnknownCompany(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{})
	_, err := svc.ListEmployees(context.Background(), uuid.New(), query.NewParameters(query.DefaultLimits))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEmployeeService_ListEmployees_PagingValidation(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{})
	p := query.NewParameters(query.DefaultLimits)
	p.PageNumber = 0
	_, err := svc.ListEmployees(context.Background(), itSolutions, p)
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, []string{"pageNumber"}, fieldNames(err))
}

func TestEmployeeService_ListEmployees_ClampsPageSize(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{Limits: query.Limits{DefaultPageSize: 2, MaxPageSize: 5}})
	p := query.NewParameters(query.Limits{DefaultPageSize: 2})
	p.PageSize = 500
	page, err := svc.ListEmployees(context.Background(), itSolutions, p)
	require.NoError(t, err)
	assert.Equal(t, 5, page.MetaData.PageSize)
	assert.Equal(t, 2, page.MetaData.TotalCount)
}

func TestEmployeeService_ListEmployees_TolerantByDefault(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{})
	p := query.NewParameters(query.DefaultLimits)
	p.OrderBy = "salary desc, age desc"
	p.Fields = "bonus,name"
	page, err := svc.ListEmployees(context.Background(), itSolutions, p)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Jana McLeaf", page.Items[0].Name)
	assert.Equal(t, "Sam Raiden", page.Items[1].Name)
}

func TestEmployeeService_ListEmployees_StrictRejectsUnknownTokens(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{Strict: true})
	p := query.NewParameters(query.DefaultLimits)
	p.OrderBy = "salary desc, age"
	p.Fields = "bonus,name"
	_, err := svc.ListEmployees(context.Background(), itSolutions, p)
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, []string{"orderBy", "fields"}, fieldNames(err))

	p.OrderBy, p.Fields = "age desc", "NAME, id"
	_, err = svc.ListEmployees(context.Background(), itSolutions, p)
	assert.NoError(t, err)
}

func TestEmployeeService_CreateEmployee_Validation(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{})
	cases := []struct {
		name       string
		in         model.EmployeeForManipulation
		wantFields []string
	}{
		{"missing_all", model.EmployeeForManipulation{}, []string{"name", "age", "position"}},
		{"too_young", model.EmployeeForManipulation{Name: "Kid", Age: 17, Position: "Intern"}, []string{"age"}},
		{"name_too_long", model.EmployeeForManipulation{Name: "abcdefghijklmnopqrstuvwxyz01234", Age: 30, Position: "Dev"}, []string{"name"}},
		{"position_too_long", model.EmployeeForManipulation{Name: "Ok", Age: 30, Position: "abcdefghijklmnopqrstu"}, []string{"position"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateEmployee(context.Background(), itSolutions, tc.in)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			assert.Equal(t, tc.wantFields, fieldNames(err))
		})
	}
}

func TestEmployeeService_CreateAndGet(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{})
	ctx := context.Background()
	created, err := svc.CreateEmployee(ctx, itSolutions, model.EmployeeForManipulation{Name: "Amy", Age: 30, Position: "Dev"})
	require.NoError(t, err)
	got, err := svc.GetEmployee(ctx, itSolutions, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.CreateEmployee(ctx, uuid.New(), model.EmployeeForManipulation{Name: "Amy", Age: 30, Position: "Dev"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEmployeeService_PatchEmployee(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{})
	ctx := context.Background()

	age := uint(27)
	require.NoError(t, svc.PatchEmployee(ctx, itSolutions, samRaiden, model.EmployeePatch{Age: &age}))
	got, err := svc.GetEmployee(ctx, itSolutions, samRaiden)
	require.NoError(t, err)
	assert.Equal(t, uint(27), got.Age)
	assert.Equal(t, "Sam Raiden", got.Name)

	young := uint(12)
	err = svc.PatchEmployee(ctx, itSolutions, samRaiden, model.EmployeePatch{Age: &young})
	require.ErrorIs(t, err, service.ErrUnprocessable)
	assert.False(t, errors.Is(err, service.ErrInvalidInput))
	assert.Equal(t, []string{"age"}, fieldNames(err))

	got, _ = svc.GetEmployee(ctx, itSolutions, samRaiden)
	assert.Equal(t, uint(27), got.Age)
}

func TestEmployeeService_UpdateAndDelete(t *testing.T) {
	svc := newEmployeeService(t, service.EmployeeOptions{})
	ctx := context.Background()
	require.NoError(t, svc.UpdateEmployee(ctx, itSolutions, samRaiden, model.EmployeeForManipulation{Name: "Sam R", Age: 40, Position: "Lead"}))
	got, err := svc.GetEmployee(ctx, itSolutions, samRaiden)
	require.NoError(t, err)
	assert.Equal(t, model.EmployeeDto{ID: samRaiden, Name: "Sam R", Age: 40, Position: "Lead"}, got)

	require.NoError(t, svc.DeleteEmployee(ctx, itSolutions, samRaiden))
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, itSolutions, samRaiden), repository.ErrNotFound)
}
