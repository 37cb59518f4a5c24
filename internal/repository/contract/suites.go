// Package contract holds storage-agnostic repository suites. Every backend
// runs the same suites so the memory store and Postgres cannot drift apart.
package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/query"
	"github.com/maxviazov/company-employees-service/internal/repository"
)

type CompanyFactory func(t *testing.T) (repository.CompanyRepository, func())

type EmployeeFactory func(t *testing.T) (repo repository.EmployeeRepository, companies repository.CompanyRepository, cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, companies repository.CompanyRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunCompanyRepositoryContract(t *testing.T, makeRepo CompanyFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Company{Name: "Acme", Address: "1 Road", Country: "USA"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID == uuid.Nil {
			t.Fatalf("expected generated id")
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != "Acme" || got.Address != "1 Road" || got.Country != "USA" {
			t.Fatalf("mismatch: %+v", got)
		}
		ok, err := repo.Exists(ctx, created.ID)
		if err != nil || !ok {
			t.Fatalf("expected exists, got %v %v", ok, err)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), uuid.New())
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		ok, err := repo.Exists(context.Background(), uuid.New())
		if err != nil || ok {
			t.Fatalf("expected not exists, got %v %v", ok, err)
		}
	})

	t.Run("list_ordered_by_name", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for _, n := range []string{"Charlie", "Alpha", "Bravo"} {
			if _, err := repo.Create(ctx, model.Company{Name: n, Address: "x"}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 3 || list[0].Name != "Alpha" || list[2].Name != "Charlie" {
			t.Fatalf("unexpected list: %+v", list)
		}
	})

	t.Run("get_by_ids_returns_existing_subset", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		a, _ := repo.Create(ctx, model.Company{Name: "A", Address: "x"})
		b, _ := repo.Create(ctx, model.Company{Name: "B", Address: "x"})
		_, _ = repo.Create(ctx, model.Company{Name: "C", Address: "x"})
		got, err := repo.GetByIDs(ctx, []uuid.UUID{b.ID, uuid.New(), a.ID})
		if err != nil {
			t.Fatalf("get by ids: %v", err)
		}
		if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
			t.Fatalf("unexpected companies: %+v", got)
		}
		empty, err := repo.GetByIDs(ctx, nil)
		if err != nil || len(empty) != 0 {
			t.Fatalf("expected empty result, got %v %v", empty, err)
		}
	})

	t.Run("update_and_delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		c, _ := repo.Create(ctx, model.Company{Name: "Old", Address: "x"})
		c.Name = "New"
		c.Address = "y"
		if _, err := repo.Update(ctx, c); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, _ := repo.GetByID(ctx, c.ID)
		if got.Name != "New" || got.Address != "y" {
			t.Fatalf("update not applied: %+v", got)
		}
		if err := repo.Delete(ctx, c.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.Delete(ctx, c.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
		if _, err := repo.Update(ctx, c); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on update of deleted, got %v", err)
		}
	})

	t.Run("create_duplicate_name_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Company{Name: "Dup", Address: "x"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, model.Company{Name: "Dup", Address: "x"})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func RunEmployeeRepositoryContract(t *testing.T, makeRepo EmployeeFactory) {
	t.Helper()

	seed := func(t *testing.T, repo repository.EmployeeRepository, companyID uuid.UUID, people ...model.Employee) {
		t.Helper()
		for _, e := range people {
			e.CompanyID = companyID
			if _, err := repo.Create(context.Background(), e); err != nil {
				t.Fatalf("seed employee %q: %v", e.Name, err)
			}
		}
	}
	mkCompany := func(t *testing.T, companies repository.CompanyRepository, name string) uuid.UUID {
		t.Helper()
		c, err := companies.Create(context.Background(), model.Company{Name: name, Address: "x"})
		if err != nil {
			t.Fatalf("seed company: %v", err)
		}
		return c.ID
	}
	names := func(in []model.Employee) []string {
		out := make([]string, 0, len(in))
		for _, e := range in {
			out = append(out, e.Name)
		}
		return out
	}
	equal := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}
	params := func() query.Parameters { return query.NewParameters(query.DefaultLimits) }

	t.Run("create_and_get_scoped_to_company", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		a := mkCompany(t, companies, "A")
		b := mkCompany(t, companies, "B")
		created, err := repo.Create(ctx, model.Employee{CompanyID: a, Name: "Sam", Age: 26, Position: "Dev"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.GetByID(ctx, a, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "Sam" || got.Age != 26 || got.CompanyID != a {
			t.Fatalf("mismatch: %+v", got)
		}
		if _, err := repo.GetByID(ctx, b, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound from other company, got %v", err)
		}
	})

	t.Run("create_for_missing_company_conflict", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Create(context.Background(), model.Employee{CompanyID: uuid.New(), Name: "X", Age: 30, Position: "Y"})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("list_default_order_and_company_scope", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		a := mkCompany(t, companies, "A")
		b := mkCompany(t, companies, "B")
		seed(t, repo, a,
			model.Employee{Name: "Cid", Age: 40, Position: "p"},
			model.Employee{Name: "Amy", Age: 30, Position: "p"},
			model.Employee{Name: "Bob", Age: 35, Position: "p"},
		)
		seed(t, repo, b, model.Employee{Name: "Zed", Age: 50, Position: "p"})
		page, err := repo.List(context.Background(), a, params(), nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got := names(page.Items); !equal(got, []string{"Amy", "Bob", "Cid"}) {
			t.Fatalf("unexpected order: %v", got)
		}
		if page.MetaData.TotalCount != 3 || page.MetaData.TotalPages != 1 {
			t.Fatalf("unexpected metadata: %+v", page.MetaData)
		}
	})

	t.Run("list_age_window_search_and_order", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		a := mkCompany(t, companies, "A")
		seed(t, repo, a,
			model.Employee{Name: "Sam Raiden", Age: 26, Position: "p"},
			model.Employee{Name: "Jana McLeaf", Age: 30, Position: "p"},
			model.Employee{Name: "Kane Miller", Age: 35, Position: "p"},
			model.Employee{Name: "Mia Young", Age: 30, Position: "p"},
			model.Employee{Name: "Old Timer", Age: 61, Position: "p"},
		)
		p := params()
		p.MinAge, p.MaxAge = 26, 35
		order, _ := query.ParseSort(repository.EmployeeResolver(), "age desc,name")
		page, err := repo.List(context.Background(), a, p, order)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		want := []string{"Kane Miller", "Jana McLeaf", "Mia Young", "Sam Raiden"}
		if got := names(page.Items); !equal(got, want) {
			t.Fatalf("unexpected order: %v", got)
		}

		p.SearchTerm = "  MI "
		page, err = repo.List(context.Background(), a, p, nil)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if got := names(page.Items); !equal(got, []string{"Kane Miller", "Mia Young"}) {
			t.Fatalf("unexpected search result: %v", got)
		}
		if page.MetaData.TotalCount != 2 {
			t.Fatalf("total must count the filtered set: %+v", page.MetaData)
		}
	})

	t.Run("list_search_treats_wildcards_literally", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		a := mkCompany(t, companies, "A")
		seed(t, repo, a,
			model.Employee{Name: "Ann_Lee", Age: 30, Position: "p"},
			model.Employee{Name: "AnnXLee", Age: 30, Position: "p"},
		)
		p := params()
		p.SearchTerm = "n_l"
		page, err := repo.List(context.Background(), a, p, nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got := names(page.Items); !equal(got, []string{"Ann_Lee"}) {
			t.Fatalf("unexpected search result: %v", got)
		}
	})

	t.Run("list_pagination_totals", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		a := mkCompany(t, companies, "A")
		for i := 0; i < 7; i++ {
			seed(t, repo, a, model.Employee{Name: "E-" + string(rune('A'+i)), Age: uint(20 + i), Position: "p"})
		}
		p := params()
		p.PageSize = 3

		p.PageNumber = 3
		page, err := repo.List(context.Background(), a, p, nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got := names(page.Items); !equal(got, []string{"E-G"}) {
			t.Fatalf("unexpected last page: %v", got)
		}
		md := page.MetaData
		if md.TotalCount != 7 || md.TotalPages != 3 || md.CurrentPage != 3 || !md.HasPrevious || md.HasNext {
			t.Fatalf("unexpected metadata: %+v", md)
		}

		p.PageNumber = 9
		page, err = repo.List(context.Background(), a, p, nil)
		if err != nil {
			t.Fatalf("list out of range: %v", err)
		}
		if page.Items == nil || len(page.Items) != 0 {
			t.Fatalf("expected empty non-nil page, got %#v", page.Items)
		}
		if page.MetaData.TotalCount != 7 || page.MetaData.TotalPages != 3 {
			t.Fatalf("out of range page lost totals: %+v", page.MetaData)
		}
	})

	t.Run("list_huge_page_number_is_empty", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		a := mkCompany(t, companies, "A")
		for i := 0; i < 5; i++ {
			seed(t, repo, a, model.Employee{Name: "E-" + string(rune('A'+i)), Age: uint(20 + i), Position: "p"})
		}
		p := params()
		p.PageSize = 2
		p.PageNumber = 1<<63 + 1
		page, err := repo.List(context.Background(), a, p, nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page.Items) != 0 {
			t.Fatalf("expected no items past the end, got %v", names(page.Items))
		}
		md := page.MetaData
		if md.TotalCount != 5 || md.TotalPages != 3 || md.CurrentPage < 1 || !md.HasPrevious || md.HasNext {
			t.Fatalf("unexpected metadata: %+v", md)
		}
	})

	t.Run("list_min_age_beyond_stored_range", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		a := mkCompany(t, companies, "A")
		seed(t, repo, a, model.Employee{Name: "Old", Age: 99, Position: "p"})
		p := params()
		p.MinAge = 3000000000
		page, err := repo.List(context.Background(), a, p, nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.Items == nil || len(page.Items) != 0 || page.MetaData.TotalCount != 0 {
			t.Fatalf("expected empty page, got %#v", page)
		}
	})

	t.Run("list_empty_company", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		a := mkCompany(t, companies, "A")
		page, err := repo.List(context.Background(), a, params(), nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.Items == nil || len(page.Items) != 0 || page.MetaData.TotalPages != 0 {
			t.Fatalf("unexpected empty page: %#v", page)
		}
	})

	t.Run("update_and_delete", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		a := mkCompany(t, companies, "A")
		e, err := repo.Create(ctx, model.Employee{CompanyID: a, Name: "Sam", Age: 26, Position: "Dev"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		e.Age = 27
		e.Position = "Lead"
		if _, err := repo.Update(ctx, e); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, _ := repo.GetByID(ctx, a, e.ID)
		if got.Age != 27 || got.Position != "Lead" {
			t.Fatalf("update not applied: %+v", got)
		}
		if err := repo.Delete(ctx, uuid.New(), e.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for foreign company, got %v", err)
		}
		if err := repo.Delete(ctx, a, e.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, a, e.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("company_delete_cascades", func(t *testing.T) {
		repo, companies, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		a := mkCompany(t, companies, "A")
		e, err := repo.Create(ctx, model.Employee{CompanyID: a, Name: "Sam", Age: 26, Position: "Dev"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := companies.Delete(ctx, a); err != nil {
			t.Fatalf("delete company: %v", err)
		}
		if _, err := repo.GetByID(ctx, a, e.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected employee gone with company, got %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, companies, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID uuid.UUID
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := companies.Create(ctx, model.Company{Name: "TxCommit", Address: "x"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := companies.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, companies, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID uuid.UUID
		errMarker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := companies.Create(ctx, model.Company{Name: "TxRollback", Address: "x"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := companies.GetByID(ctx, createdID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
