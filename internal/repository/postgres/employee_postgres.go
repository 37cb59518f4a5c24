package postgres

import (
	"context"
	"errors"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/query"
	"github.com/maxviazov/company-employees-service/internal/repository"
)

const employeeColumns = "id, company_id, name, age, position, created_at, updated_at"

// employeeRepository pushes the age window, search, order and page window
// down to SQL so only one page of rows ever leaves the database.
type employeeRepository struct {
	pool        *pgxpool.Pool
	defaultSort query.SortDirective
}

func NewEmployeeRepository(pool *pgxpool.Pool) repository.EmployeeRepository {
	return &employeeRepository{
		pool:        pool,
		defaultSort: query.MustParseSort(repository.EmployeeResolver(), "name"),
	}
}

func scanEmployee(row pgx.Row, extra ...any) (model.Employee, error) {
	var e model.Employee
	dest := append([]any{&e.ID, &e.CompanyID, &e.Name, &e.Age, &e.Position, &e.CreatedAt, &e.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	return e, err
}

// employeeFilter builds the WHERE clause shared by the page and count queries.
func employeeFilter(companyID uuid.UUID, p query.Parameters) sq.And {
	where := sq.And{sq.Expr("company_id = ?", companyID)}
	// age is INTEGER: a minAge past its range matches nothing and cannot be bound
	if p.MinAge > math.MaxInt32 {
		return append(where, sq.Expr("FALSE"))
	}
	where = append(where, sq.GtOrEq{"age": p.MinAge})
	// an unbounded max is simply no upper clause
	if p.MaxAge < math.MaxInt32 {
		where = append(where, sq.LtOrEq{"age": p.MaxAge})
	}
	if term := query.SearchTerm(p.SearchTerm); term != "" {
		where = append(where, sq.Expr("LOWER(name) LIKE ?", "%"+escapeLike(term)+"%"))
	}
	return where
}

// orderClauses maps directive keys to columns through the db tags; id is the
// final tie-break so paging is deterministic.
func orderClauses(d query.SortDirective) []string {
	out := make([]string, 0, len(d)+1)
	for _, k := range d {
		if k.Property.Column == "" {
			continue
		}
		dir := "ASC"
		if k.Direction == query.Descending {
			dir = "DESC"
		}
		out = append(out, k.Property.Column+" "+dir)
	}
	return append(out, "id ASC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *employeeRepository) List(ctx context.Context, companyID uuid.UUID, p query.Parameters, order query.SortDirective) (query.PagedList[model.Employee], error) {
	if err := requirePool(r.pool); err != nil {
		return query.PagedList[model.Employee]{}, err
	}
	if p.PageNumber == 0 || p.PageSize == 0 {
		p = p.Normalize(query.DefaultLimits)
	}
	where := employeeFilter(companyID, p)

	sqlStr, args, err := sq.Select(employeeColumns, "COUNT(*) OVER() AS total").
		From("employees").
		Where(where).
		OrderBy(orderClauses(order.Or(r.defaultSort))...).
		Limit(uint64(p.PageSize)).
		Offset(p.Offset()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return query.PagedList[model.Employee]{}, err
	}

	exec := conn(ctx, r.pool)
	rows, err := exec.Query(ctx, sqlStr, args...)
	if err != nil {
		return query.PagedList[model.Employee]{}, repository.MapPgError(err)
	}
	items := make([]model.Employee, 0, p.PageSize)
	total := 0
	for rows.Next() {
		e, err := scanEmployee(rows, &total)
		if err != nil {
			rows.Close()
			return query.PagedList[model.Employee]{}, repository.MapPgError(err)
		}
		items = append(items, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return query.PagedList[model.Employee]{}, repository.MapPgError(err)
	}

	// a page past the end returns no rows and therefore no window count
	if len(items) == 0 && p.Offset() > 0 {
		countSQL, countArgs, err := sq.Select("COUNT(*)").
			From("employees").
			Where(where).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return query.PagedList[model.Employee]{}, err
		}
		if err := exec.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return query.PagedList[model.Employee]{}, repository.MapPgError(err)
		}
	}
	return query.NewPagedList(items, total, p.PageNumber, p.PageSize), nil
}

func (r *employeeRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (model.Employee, error) {
	if err := requirePool(r.pool); err != nil {
		return model.Employee{}, err
	}
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 AND id = $2`, companyID, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Employee{}, repository.ErrNotFound
		}
		return model.Employee{}, repository.MapPgError(err)
	}
	return e, nil
}

func (r *employeeRepository) Create(ctx context.Context, e model.Employee) (model.Employee, error) {
	if err := requirePool(r.pool); err != nil {
		return model.Employee{}, err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	row := conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO employees (id, company_id, name, age, position)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+employeeColumns,
		e.ID, e.CompanyID, e.Name, int64(e.Age), e.Position,
	)
	out, err := scanEmployee(row)
	if err != nil {
		return model.Employee{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *employeeRepository) Update(ctx context.Context, e model.Employee) (model.Employee, error) {
	if err := requirePool(r.pool); err != nil {
		return model.Employee{}, err
	}
	row := conn(ctx, r.pool).QueryRow(ctx,
		`UPDATE employees SET name = $3, age = $4, position = $5, updated_at = now()
		 WHERE company_id = $1 AND id = $2
		 RETURNING `+employeeColumns,
		e.CompanyID, e.ID, e.Name, int64(e.Age), e.Position,
	)
	out, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Employee{}, repository.ErrNotFound
		}
		return model.Employee{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *employeeRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if err := requirePool(r.pool); err != nil {
		return err
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM employees WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.EmployeeRepository = (*employeeRepository)(nil)
