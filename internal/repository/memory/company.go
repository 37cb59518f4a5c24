package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/repository"
)

type companyRepository struct{ s *Store }

func NewCompanyRepository(s *Store) repository.CompanyRepository {
	return &companyRepository{s: s}
}

func byName(a, b model.Company) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID.String(), b.ID.String())
}

func (r *companyRepository) List(ctx context.Context) ([]model.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		out = append(out, c)
	}
	slices.SortFunc(out, byName)
	return out, nil
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Company, error) {
	if err := ctx.Err(); err != nil {
		return model.Company{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return model.Company{}, repository.ErrNotFound
	}
	return c, nil
}

func (r *companyRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Company{}
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if c, ok := r.s.companies[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, c)
		}
	}
	slices.SortFunc(out, byName)
	return out, nil
}

func (r *companyRepository) Create(ctx context.Context, c model.Company) (model.Company, error) {
	if err := ctx.Err(); err != nil {
		return model.Company{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, ok := r.s.companies[c.ID]; ok || r.s.companyNameTaken(c.Name, c.ID) {
		return model.Company{}, repository.ErrAlreadyExists
	}
	c.CreatedAt = r.s.now()
	c.UpdatedAt = c.CreatedAt
	r.s.companies[c.ID] = c
	r.s.journal(ctx, func() {
		delete(r.s.companies, c.ID)
		r.s.employees = slices.DeleteFunc(r.s.employees, func(e model.Employee) bool { return e.CompanyID == c.ID })
	})
	return c, nil
}

func (r *companyRepository) Update(ctx context.Context, c model.Company) (model.Company, error) {
	if err := ctx.Err(); err != nil {
		return model.Company{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.companies[c.ID]
	if !ok {
		return model.Company{}, repository.ErrNotFound
	}
	if r.s.companyNameTaken(c.Name, c.ID) {
		return model.Company{}, repository.ErrAlreadyExists
	}
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = r.s.now()
	r.s.companies[c.ID] = c
	r.s.journal(ctx, func() {
		if _, ok := r.s.companies[cur.ID]; ok {
			r.s.companies[cur.ID] = cur
		}
	})
	return c, nil
}

func (r *companyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.companies[id]
	if !ok {
		return repository.ErrNotFound
	}
	type removed struct {
		at int
		e  model.Employee
	}
	var cascade []removed
	for i, e := range r.s.employees {
		if e.CompanyID == id {
			cascade = append(cascade, removed{at: i, e: e})
		}
	}
	delete(r.s.companies, id)
	r.s.employees = slices.DeleteFunc(r.s.employees, func(e model.Employee) bool { return e.CompanyID == id })
	r.s.journal(ctx, func() {
		r.s.companies[id] = cur
		for _, rm := range cascade {
			r.s.putEmployee(rm.e, rm.at)
		}
	})
	return nil
}

func (r *companyRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.companies[id]
	return ok, nil
}

var _ repository.CompanyRepository = (*companyRepository)(nil)
