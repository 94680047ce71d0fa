package store

import (
	"context"
	"fmt"

	"hr-alerter/internal/domain"
)

// SaveSignal appends one scoring snapshot. Signals are never updated.
func (d *DB) SaveSignal(ctx context.Context, s domain.Signal) (int64, error) {
	res, err := d.Pool.ExecContext(ctx, `
INSERT INTO signals (
  company_id, signal_date, signal_type,
  velocity_score, seniority_score, icp_score, content_score, recency_score,
  posting_count_7d, posting_count_30d, posting_count_90d,
  has_director_role, has_wellbeing_keywords, multi_city_expansion,
  final_score, lead_temperature, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		s.CompanyID, s.SignalDate, s.SignalType,
		s.VelocityScore, s.SeniorityScore, s.ICPScore, s.ContentScore, s.RecencyScore,
		s.PostingCount7d, s.PostingCount30d, s.PostingCount90d,
		boolInt(s.HasDirectorRole), boolInt(s.HasWellbeingKeywords), boolInt(s.MultiCityExpansion),
		s.FinalScore, string(s.LeadTemperature), d.now().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("insert signal company=%d: %w", s.CompanyID, err)
	}
	return res.LastInsertId()
}

const signalCols = `s.id, s.company_id, c.name_normalized, s.signal_date, s.signal_type,
  s.velocity_score, s.seniority_score, s.icp_score, s.content_score, s.recency_score,
  s.posting_count_7d, s.posting_count_30d, s.posting_count_90d,
  s.has_director_role, s.has_wellbeing_keywords, s.multi_city_expansion,
  s.final_score, s.lead_temperature, s.created_at`

func scanSignal(sc interface{ Scan(...any) error }) (domain.Signal, error) {
	var (
		s                          domain.Signal
		director, wellbeing, multi int
		temp                       string
	)
	err := sc.Scan(&s.ID, &s.CompanyID, &s.CompanyName, &s.SignalDate, &s.SignalType,
		&s.VelocityScore, &s.SeniorityScore, &s.ICPScore, &s.ContentScore, &s.RecencyScore,
		&s.PostingCount7d, &s.PostingCount30d, &s.PostingCount90d,
		&director, &wellbeing, &multi,
		&s.FinalScore, &temp, &s.CreatedAt)
	s.HasDirectorRole = director != 0
	s.HasWellbeingKeywords = wellbeing != 0
	s.MultiCityExpansion = multi != 0
	s.LeadTemperature = domain.Temperature(temp)
	return s, err
}

// LatestLeadSignals returns, for each non-customer company, its most recent
// signal dated on or after since, kept only when that signal is hot or warm.
// Results are ordered by final_score descending.
func (d *DB) LatestLeadSignals(ctx context.Context, since string) ([]domain.Signal, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT `+signalCols+`
FROM signals s
JOIN companies c ON c.id = s.company_id
WHERE s.signal_date >= ?
  AND c.is_existing_customer = 0
  AND s.lead_temperature IN ('hot', 'warm')
  AND s.id = (
    SELECT s2.id FROM signals s2
    WHERE s2.company_id = s.company_id AND s2.signal_date >= ?
    ORDER BY s2.signal_date DESC, s2.id DESC
    LIMIT 1
  )
ORDER BY s.final_score DESC, c.name_normalized ASC;`, since, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Signal
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListSignals returns signals newest first, optionally for one company
// (companyID 0 means all) and optionally filtered by temperature.
func (d *DB) ListSignals(ctx context.Context, companyID int64, temp domain.Temperature, limit int) ([]domain.Signal, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT `+signalCols+`
FROM signals s
JOIN companies c ON c.id = s.company_id
WHERE (? = 0 OR s.company_id = ?)
  AND (? = '' OR s.lead_temperature = ?)
ORDER BY s.signal_date DESC, s.id DESC
LIMIT ?;`, companyID, companyID, string(temp), string(temp), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Signal
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (d *DB) SignalCount(ctx context.Context, companyID int64) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM signals WHERE company_id = ?;`, companyID).Scan(&n)
	return n, err
}
