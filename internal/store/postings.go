package store

import (
	"context"
	"database/sql"
	"fmt"

	"hr-alerter/internal/domain"
)

// InsertPostings stores postings keyed on job_url. Rows whose job_url is
// already present are skipped; the returned count covers new rows only.
// A missing post_date defaults to the ingestion date.
func (d *DB) InsertPostings(ctx context.Context, postings []domain.JobPosting) (inserted int, err error) {
	if len(postings) == 0 {
		return 0, nil
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO job_postings
  (source, job_url, job_title, company_name_raw, location, post_date,
   job_description, seniority_level, employment_type)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert posting: %w", err)
	}
	defer stmt.Close()

	today := d.now().Format(domain.DateLayout)
	for _, p := range postings {
		postDate := p.PostDate
		if postDate == "" {
			postDate = today
		}
		res, err := stmt.ExecContext(ctx,
			p.Source, p.JobURL, p.JobTitle, p.CompanyNameRaw,
			nullString(p.Location), postDate, nullString(p.JobDescription),
			nullString(p.SeniorityLevel), nullString(p.EmploymentType),
		)
		if err != nil {
			return 0, fmt.Errorf("insert posting %s: %w", p.JobURL, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

const postingCols = `id, source, job_url, job_title, company_name_raw, company_id,
  location, post_date, job_description, seniority_level, employment_type, is_relevant`

func scanPosting(sc interface{ Scan(...any) error }) (domain.JobPosting, error) {
	var (
		p                                domain.JobPosting
		companyID                        sql.NullInt64
		loc, desc, seniority, employment sql.NullString
		relevant                         int
	)
	if err := sc.Scan(&p.ID, &p.Source, &p.JobURL, &p.JobTitle, &p.CompanyNameRaw, &companyID,
		&loc, &p.PostDate, &desc, &seniority, &employment, &relevant); err != nil {
		return p, err
	}
	if companyID.Valid {
		id := companyID.Int64
		p.CompanyID = &id
	}
	p.Location = loc.String
	p.JobDescription = desc.String
	p.SeniorityLevel = seniority.String
	p.EmploymentType = employment.String
	p.IsRelevant = relevant != 0
	return p, nil
}

// ListRelevantPostings returns a company's relevant postings dated between
// since and until inclusive (YYYY-MM-DD), newest first.
func (d *DB) ListRelevantPostings(ctx context.Context, companyID int64, since, until string) ([]domain.JobPosting, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT `+postingCols+`
FROM job_postings
WHERE company_id = ?
  AND is_relevant = 1
  AND post_date >= ?
  AND post_date <= ?
ORDER BY post_date DESC, id DESC;`, companyID, since, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobPosting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LatestRelevantPostDate returns the newest post_date on or before until
// among a company's relevant postings regardless of age, or "" when there
// are none.
func (d *DB) LatestRelevantPostDate(ctx context.Context, companyID int64, until string) (string, error) {
	var latest sql.NullString
	err := d.Pool.QueryRowContext(ctx, `
SELECT MAX(post_date)
FROM job_postings
WHERE company_id = ? AND is_relevant = 1 AND post_date <= ?;`, companyID, until).Scan(&latest)
	if err != nil {
		return "", err
	}
	return latest.String, nil
}

type CompanyCount struct {
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
	Postings  int    `json:"postings"`
}

// CandidateCompanies lists linked companies with at least min relevant
// postings dated between since and until inclusive, busiest first.
func (d *DB) CandidateCompanies(ctx context.Context, since, until string, min int) ([]CompanyCount, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT p.company_id, c.name_normalized, COUNT(*) AS n
FROM job_postings p
JOIN companies c ON c.id = p.company_id
WHERE p.company_id IS NOT NULL
  AND p.is_relevant = 1
  AND p.post_date >= ?
  AND p.post_date <= ?
GROUP BY p.company_id
HAVING COUNT(*) >= ?
ORDER BY n DESC, p.company_id ASC;`, since, until, min)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompanyCount
	for rows.Next() {
		var c CompanyCount
		if err := rows.Scan(&c.CompanyID, &c.Name, &c.Postings); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetPostingRelevant toggles the manual curation flag.
func (d *DB) SetPostingRelevant(ctx context.Context, id int64, relevant bool) error {
	res, err := d.Pool.ExecContext(ctx, `UPDATE job_postings SET is_relevant = ? WHERE id = ?;`, boolInt(relevant), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DistinctRawCompanyNames returns every company_name_raw seen in postings.
func (d *DB) DistinctRawCompanyNames(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.QueryContext(ctx, `SELECT DISTINCT company_name_raw FROM job_postings ORDER BY company_name_raw;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type UnlinkedPosting struct {
	ID             int64
	CompanyNameRaw string
}

func (d *DB) UnlinkedPostings(ctx context.Context) ([]UnlinkedPosting, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, company_name_raw FROM job_postings WHERE company_id IS NULL ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UnlinkedPosting
	for rows.Next() {
		var u UnlinkedPosting
		if err := rows.Scan(&u.ID, &u.CompanyNameRaw); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// LinkPosting sets company_id on a posting that has none. It reports
// whether a row changed.
func (d *DB) LinkPosting(ctx context.Context, postingID, companyID int64) (bool, error) {
	res, err := d.Pool.ExecContext(ctx, `
UPDATE job_postings SET company_id = ? WHERE id = ? AND company_id IS NULL;`, companyID, postingID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RecentPostings returns up to limit relevant postings for a company dated
// between since and until inclusive, newest first.
func (d *DB) RecentPostings(ctx context.Context, companyID int64, since, until string, limit int) ([]domain.JobPosting, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT `+postingCols+`
FROM job_postings
WHERE company_id = ?
  AND is_relevant = 1
  AND post_date >= ?
  AND post_date <= ?
ORDER BY post_date DESC, id DESC
LIMIT ?;`, companyID, since, until, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobPosting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *DB) JobCount(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_postings;`).Scan(&n)
	return n, err
}

// TopCompanies ranks raw company names by total posting count.
func (d *DB) TopCompanies(ctx context.Context, limit int) ([]CompanyCount, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT company_name_raw, COUNT(*) AS n
FROM job_postings
GROUP BY company_name_raw
ORDER BY n DESC, company_name_raw ASC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompanyCount
	for rows.Next() {
		var c CompanyCount
		if err := rows.Scan(&c.Name, &c.Postings); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type PostingStats struct {
	TotalPostings int `json:"total_postings"`
	NewCompanies  int `json:"new_companies"`
	ICPMatches    int `json:"icp_matches"`
}

// Stats summarises postings dated on or after since plus the ICP match count.
func (d *DB) Stats(ctx context.Context, since string) (PostingStats, error) {
	var s PostingStats
	if err := d.Pool.QueryRowContext(ctx, `
SELECT COUNT(*), COUNT(DISTINCT company_name_raw)
FROM job_postings
WHERE post_date >= ?;`, since).Scan(&s.TotalPostings, &s.NewCompanies); err != nil {
		return s, err
	}
	if err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies WHERE is_icp_match = 1;`).Scan(&s.ICPMatches); err != nil {
		return s, err
	}
	return s, nil
}
