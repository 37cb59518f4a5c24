package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/query"
	"github.com/maxviazov/company-employees-service/internal/repository"
)

type employeeRepository struct {
	s        *Store
	composer *query.Composer[model.Employee]
}

// NewEmployeeRepository lists through the in-process composer: filter, search,
// stable sort, then page slicing.
func NewEmployeeRepository(s *Store) repository.EmployeeRepository {
	return &employeeRepository{s: s, composer: repository.NewEmployeeComposer()}
}

func (r *employeeRepository) List(ctx context.Context, companyID uuid.UUID, p query.Parameters, order query.SortDirective) (query.PagedList[model.Employee], error) {
	if err := ctx.Err(); err != nil {
		return query.PagedList[model.Employee]{}, err
	}
	if p.PageNumber == 0 || p.PageSize == 0 {
		p = p.Normalize(query.DefaultLimits)
	}
	r.s.mu.RLock()
	scoped := make([]model.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		if e.CompanyID == companyID {
			scoped = append(scoped, e)
		}
	}
	r.s.mu.RUnlock()

	composed := r.composer.Compose(scoped, p, order)
	return query.ToPagedList(composed, p.PageNumber, p.PageSize), nil
}

func (r *employeeRepository) indexOf(companyID, id uuid.UUID) int {
	for i, e := range r.s.employees {
		if e.ID == id && e.CompanyID == companyID {
			return i
		}
	}
	return -1
}

func (r *employeeRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (model.Employee, error) {
	if err := ctx.Err(); err != nil {
		return model.Employee{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i := r.indexOf(companyID, id)
	if i < 0 {
		return model.Employee{}, repository.ErrNotFound
	}
	return r.s.employees[i], nil
}

func (r *employeeRepository) Create(ctx context.Context, e model.Employee) (model.Employee, error) {
	if err := ctx.Err(); err != nil {
		return model.Employee{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[e.CompanyID]; !ok {
		return model.Employee{}, repository.ErrConflict
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	for _, cur := range r.s.employees {
		if cur.ID == e.ID {
			return model.Employee{}, repository.ErrAlreadyExists
		}
	}
	e.CreatedAt = r.s.now()
	e.UpdatedAt = e.CreatedAt
	r.s.employees = append(r.s.employees, e)
	r.s.journal(ctx, func() { r.s.removeEmployee(e.ID) })
	return e, nil
}

func (r *employeeRepository) Update(ctx context.Context, e model.Employee) (model.Employee, error) {
	if err := ctx.Err(); err != nil {
		return model.Employee{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.indexOf(e.CompanyID, e.ID)
	if i < 0 {
		return model.Employee{}, repository.ErrNotFound
	}
	prev := r.s.employees[i]
	e.CreatedAt = prev.CreatedAt
	e.UpdatedAt = r.s.now()
	r.s.employees[i] = e
	r.s.journal(ctx, func() {
		if slices.ContainsFunc(r.s.employees, func(cur model.Employee) bool { return cur.ID == prev.ID }) {
			r.s.putEmployee(prev, i)
		}
	})
	return e, nil
}

func (r *employeeRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.indexOf(companyID, id)
	if i < 0 {
		return repository.ErrNotFound
	}
	prev := r.s.employees[i]
	r.s.employees = slices.Delete(r.s.employees, i, i+1)
	r.s.journal(ctx, func() { r.s.putEmployee(prev, i) })
	return nil
}

var _ repository.EmployeeRepository = (*employeeRepository)(nil)
