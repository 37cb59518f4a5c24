package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/query"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// CompanyRepository declares persistence operations for companies.
// Implementations surface ErrNotFound / ErrAlreadyExists rather than driver codes.
type CompanyRepository interface {
	List(ctx context.Context) ([]model.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Company, error)
	// GetByIDs returns the companies that exist among ids, ordered by name.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Company, error)
	Create(ctx context.Context, c model.Company) (model.Company, error)
	Update(ctx context.Context, c model.Company) (model.Company, error)
	// Delete removes the company together with its employees.
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// EmployeeRepository declares persistence operations for employees scoped to a company.
type EmployeeRepository interface {
	// List returns one page of the company's employees after the age window,
	// search term and order have been applied. An empty order means the
	// default ordering (by name). Totals in the metadata count the whole
	// filtered set, also when the page is past the end.
	List(ctx context.Context, companyID uuid.UUID, p query.Parameters, order query.SortDirective) (query.PagedList[model.Employee], error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (model.Employee, error)
	Create(ctx context.Context, e model.Employee) (model.Employee, error)
	Update(ctx context.Context, e model.Employee) (model.Employee, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// EmployeeResolver is the property table list ordering resolves against.
func EmployeeResolver() *query.Resolver[model.Employee] {
	return query.NewResolver[model.Employee]()
}

// NewEmployeeComposer builds the in-process composer for employees:
// age window on Age, search on Name, default order by name.
func NewEmployeeComposer() *query.Composer[model.Employee] {
	return query.NewComposer(
		EmployeeResolver(),
		func(e model.Employee) uint { return e.Age },
		func(e model.Employee) string { return e.Name },
		"name",
	)
}
