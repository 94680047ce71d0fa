package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hr-alerter/internal/domain"
)

// InsertCompanyIgnore creates a company for name unless one already exists.
func (d *DB) InsertCompanyIgnore(ctx context.Context, name string) (created bool, err error) {
	res, err := d.Pool.ExecContext(ctx, `INSERT OR IGNORE INTO companies (name_normalized) VALUES (?);`, name)
	if err != nil {
		return false, fmt.Errorf("insert company %q: %w", name, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (d *DB) CompanyIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := d.Pool.QueryRowContext(ctx, `SELECT id FROM companies WHERE name_normalized = ?;`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

const companyCols = `id, name_normalized, linkedin_url, headcount_poland, industry,
  is_icp_match, is_existing_customer, created_at, updated_at`

func scanCompany(sc interface{ Scan(...any) error }) (domain.Company, error) {
	var (
		c                  domain.Company
		linkedin, industry sql.NullString
		headcount          sql.NullInt64
		icp, customer      int
	)
	if err := sc.Scan(&c.ID, &c.NameNormalized, &linkedin, &headcount, &industry,
		&icp, &customer, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return c, err
	}
	c.LinkedInURL = linkedin.String
	c.Industry = industry.String
	if headcount.Valid {
		h := int(headcount.Int64)
		c.HeadcountPoland = &h
	}
	c.IsICPMatch = icp != 0
	c.IsExistingCustomer = customer != 0
	return c, nil
}

func (d *DB) GetCompany(ctx context.Context, id int64) (domain.Company, error) {
	row := d.Pool.QueryRowContext(ctx, `SELECT `+companyCols+` FROM companies WHERE id = ?;`, id)
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

// UpsertCompany creates the company named name if needed and applies the
// non-nil fields of u. name must already be normalized.
func (d *DB) UpsertCompany(ctx context.Context, name string, u domain.CompanyUpdate) (domain.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Company{}, errors.New("company name is empty")
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return domain.Company{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO companies (name_normalized) VALUES (?);`, name); err != nil {
		return domain.Company{}, fmt.Errorf("insert company %q: %w", name, err)
	}

	if !u.Empty() {
		sets, args := updateClauses(u)
		sets = append(sets, "updated_at = ?")
		args = append(args, d.now().Format("2006-01-02 15:04:05"), name)
		q := `UPDATE companies SET ` + strings.Join(sets, ", ") + ` WHERE name_normalized = ?;`
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return domain.Company{}, fmt.Errorf("update company %q: %w", name, err)
		}
	}

	c, err := scanCompany(tx.QueryRowContext(ctx, `SELECT `+companyCols+` FROM companies WHERE name_normalized = ?;`, name))
	if err != nil {
		return domain.Company{}, err
	}
	return c, tx.Commit()
}

// UpdateCompany applies u to an existing company by id.
func (d *DB) UpdateCompany(ctx context.Context, id int64, u domain.CompanyUpdate) (domain.Company, error) {
	c, err := d.GetCompany(ctx, id)
	if err != nil {
		return c, err
	}
	return d.UpsertCompany(ctx, c.NameNormalized, u)
}

// updateClauses maps the set fields of u onto column assignments.
// Column names come from this fixed list only.
func updateClauses(u domain.CompanyUpdate) (sets []string, args []any) {
	if u.LinkedInURL != nil {
		sets = append(sets, "linkedin_url = ?")
		args = append(args, nullString(*u.LinkedInURL))
	}
	if u.HeadcountPoland != nil {
		sets = append(sets, "headcount_poland = ?")
		args = append(args, *u.HeadcountPoland)
	}
	if u.Industry != nil {
		sets = append(sets, "industry = ?")
		args = append(args, nullString(*u.Industry))
	}
	if u.IsICPMatch != nil {
		sets = append(sets, "is_icp_match = ?")
		args = append(args, boolInt(*u.IsICPMatch))
	}
	if u.IsExistingCustomer != nil {
		sets = append(sets, "is_existing_customer = ?")
		args = append(args, boolInt(*u.IsExistingCustomer))
	}
	return sets, args
}
