package store

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= schemaVersion {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS companies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name_normalized TEXT NOT NULL UNIQUE,
  linkedin_url TEXT,
  headcount_poland INTEGER,
  industry TEXT,
  is_icp_match INTEGER NOT NULL DEFAULT 0,
  is_existing_customer INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL DEFAULT (datetime('now')),
  updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS job_postings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  job_url TEXT NOT NULL UNIQUE,
  job_title TEXT NOT NULL,
  company_name_raw TEXT NOT NULL,
  company_id INTEGER REFERENCES companies(id),
  location TEXT,
  post_date TEXT NOT NULL,
  job_description TEXT,
  seniority_level TEXT,
  employment_type TEXT,
  is_relevant INTEGER NOT NULL DEFAULT 1,
  scraped_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS signals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company_id INTEGER NOT NULL REFERENCES companies(id),
  signal_date TEXT NOT NULL,
  signal_type TEXT NOT NULL,
  velocity_score INTEGER NOT NULL DEFAULT 0,
  seniority_score INTEGER NOT NULL DEFAULT 0,
  icp_score INTEGER NOT NULL DEFAULT 0,
  content_score INTEGER NOT NULL DEFAULT 0,
  recency_score INTEGER NOT NULL DEFAULT 0,
  posting_count_7d INTEGER NOT NULL DEFAULT 0,
  posting_count_30d INTEGER NOT NULL DEFAULT 0,
  posting_count_90d INTEGER NOT NULL DEFAULT 0,
  has_director_role INTEGER NOT NULL DEFAULT 0,
  has_wellbeing_keywords INTEGER NOT NULL DEFAULT 0,
  multi_city_expansion INTEGER NOT NULL DEFAULT 0,
  final_score INTEGER NOT NULL DEFAULT 0,
  lead_temperature TEXT NOT NULL,
  created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS reports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  report_date TEXT NOT NULL,
  report_type TEXT NOT NULL,
  recipient_email TEXT NOT NULL,
  hot_count INTEGER NOT NULL DEFAULT 0,
  warm_count INTEGER NOT NULL DEFAULT 0,
  sent_at TEXT,
  email_subject TEXT NOT NULL,
  email_body TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_job_postings_company ON job_postings(company_id);`,
		`CREATE INDEX IF NOT EXISTS idx_job_postings_post_date ON job_postings(post_date);`,
		`CREATE INDEX IF NOT EXISTS idx_signals_company_date ON signals(company_id, signal_date);`,
		`CREATE INDEX IF NOT EXISTS idx_signals_date_temp ON signals(signal_date, lead_temperature);`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	// Dev databases created before the relevance flag existed.
	if !columnExists(tx, "job_postings", "is_relevant") {
		if _, err := tx.Exec(`ALTER TABLE job_postings ADD COLUMN is_relevant INTEGER NOT NULL DEFAULT 1;`); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
		return err
	}

	return tx.Commit()
}

func columnExists(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, table, col string) bool {
	query := fmt.Sprintf(`
SELECT 1
FROM pragma_table_info('%s')
WHERE name = ?
LIMIT 1;
`, table)

	var one int
	err := q.QueryRow(query, col).Scan(&one)
	return err == nil
}
