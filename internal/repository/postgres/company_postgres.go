package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/company-employees-service/internal/model"
	"github.com/maxviazov/company-employees-service/internal/repository"
)

const companyColumns = "id, name, address, country, created_at, updated_at"

type companyRepository struct{ pool *pgxpool.Pool }

func NewCompanyRepository(pool *pgxpool.Pool) repository.CompanyRepository {
	return &companyRepository{pool: pool}
}

func scanCompany(row pgx.Row) (model.Company, error) {
	var c model.Company
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *companyRepository) List(ctx context.Context) ([]model.Company, error) {
	if err := requirePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name, id`)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return collectCompanies(rows)
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Company, error) {
	if err := requirePool(r.pool); err != nil {
		return model.Company{}, err
	}
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Company{}, repository.ErrNotFound
		}
		return model.Company{}, repository.MapPgError(err)
	}
	return c, nil
}

func (r *companyRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Company, error) {
	if err := requirePool(r.pool); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Company{}, nil
	}
	sqlStr, args, err := sq.Select(companyColumns).
		From("companies").
		Where(sq.Eq{"id": ids}).
		OrderBy("name", "id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return collectCompanies(rows)
}

func collectCompanies(rows pgx.Rows) ([]model.Company, error) {
	defer rows.Close()
	out := []model.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *companyRepository) Create(ctx context.Context, c model.Company) (model.Company, error) {
	if err := requirePool(r.pool); err != nil {
		return model.Company{}, err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	row := conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO companies (id, name, address, country)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+companyColumns,
		c.ID, c.Name, c.Address, c.Country,
	)
	out, err := scanCompany(row)
	if err != nil {
		return model.Company{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *companyRepository) Update(ctx context.Context, c model.Company) (model.Company, error) {
	if err := requirePool(r.pool); err != nil {
		return model.Company{}, err
	}
	row := conn(ctx, r.pool).QueryRow(ctx,
		`UPDATE companies SET name = $2, address = $3, country = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+companyColumns,
		c.ID, c.Name, c.Address, c.Country,
	)
	out, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Company{}, repository.ErrNotFound
		}
		return model.Company{}, repository.MapPgError(err)
	}
	return out, nil
}

// Delete relies on ON DELETE CASCADE for the company's employees.
func (r *companyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := requirePool(r.pool); err != nil {
		return err
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Exists performs a lightweight check to see if a company with the given ID exists.
func (r *companyRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := requirePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

var _ repository.CompanyRepository = (*companyRepository)(nil)
